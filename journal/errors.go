package journal

import "errors"

// ErrTemplateUnbalanced is returned when a synthesized entry cannot be
// balanced within rounding_tolerance after the retry budget is exhausted,
// per spec §4.7/§7 (TemplateError).
var ErrTemplateUnbalanced = errors.New("journal: template could not balance within tolerance")

// ErrNoTemplate is returned when no template is registered for a
// (business process, transition) pair.
var ErrNoTemplate = errors.New("journal: no template registered for business process/transition")
