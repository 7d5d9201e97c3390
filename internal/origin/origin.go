// Package origin decides which window origins may talk to the invitation.
package origin

import "slices"

// IsTrusted reports whether origin equals currentOrigin or appears verbatim in
// allowList. There is no wildcard or suffix matching, and an empty origin is
// never trusted.
func IsTrusted(origin, currentOrigin string, allowList []string) bool {
	if origin == "" {
		return false
	}
	if origin == currentOrigin {
		return true
	}
	return slices.Contains(allowList, origin)
}

// Validator carries the single allow list configured at startup so the inbound
// gate and the outbound target always agree.
type Validator struct {
	allowList []string
}

// NewValidator copies allowList; later changes to the caller's slice have no effect.
func NewValidator(allowList []string) *Validator {
	return &Validator{allowList: slices.Clone(allowList)}
}

// Trusted checks origin against currentOrigin and the configured allow list
func (v *Validator) Trusted(origin, currentOrigin string) bool {
	if v == nil {
		return IsTrusted(origin, currentOrigin, nil)
	}
	return IsTrusted(origin, currentOrigin, v.allowList)
}

// Target is the origin outbound messages are addressed to
func (v *Validator) Target() string {
	if v == nil || len(v.allowList) == 0 {
		return "*"
	}
	return v.allowList[0]
}

// AllowList returns a copy of the configured origins
func (v *Validator) AllowList() []string {
	if v == nil {
		return nil
	}
	return slices.Clone(v.allowList)
}
