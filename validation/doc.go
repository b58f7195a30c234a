// Package validation validates request payloads.
//
// Struct tags are checked with go-playground/validator and reported by
// json field path. The fluent Validator covers checks that tags cannot
// express. Both produce an INVALID_INPUT AppError with per-field details.
//
//	type Segment struct {
//	    StartMs int64 `json:"startMs" validate:"gte=0"`
//	    EndMs   int64 `json:"endMs" validate:"gtefield=StartMs"`
//	}
//	err := validation.Validate(req)
package validation
