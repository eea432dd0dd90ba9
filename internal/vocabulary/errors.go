package vocabulary

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every record rejection
	ErrValidation = errors.New("vocabulary: validation failed")

	ErrEmptyText        = fmt.Errorf("%w: text is empty", ErrValidation)
	ErrEmptyTranslation = fmt.Errorf("%w: translation is empty", ErrValidation)
	ErrMultiWord        = fmt.Errorf("%w: only single words can be saved", ErrValidation)
	ErrDuplicateText    = fmt.Errorf("%w: word already exists", ErrValidation)

	ErrNotFound               = errors.New("vocabulary: record not found")
	ErrConcurrentModification = errors.New("vocabulary: collection changed concurrently")
)
