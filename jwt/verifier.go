package jwt

import (
	"fmt"
	"sort"

	"github.com/halimath/cjwt/internal/jsonvalue"
	"github.com/halimath/cjwt/jws"
)

// Validation status messages. Validate reports one of these per run, or,
// when a replicated claim or a required grant fails, a message naming that
// claim or grant; Policy.Status returns the message of the most recent run.
const (
	StatusValid             = "Valid JWT"
	StatusInvalidToken      = "Invalid JWT"
	StatusAlgorithmMismatch = "Algorithm does not match"
	StatusExpired           = "JWT has expired"
	StatusNotMatured        = "JWT has not matured"
)

// Policy describes the checks a token must pass to be accepted: the
// algorithm it must carry, an optional evaluation time for the exp and
// nbf grants and a set of grants that must be present with expected
// values. The replicated claims iss, sub and aud are always checked for
// consistency between header and payload when both carry them.
type Policy struct {
	alg jws.Algorithm
	now int64

	// hdr selects where replicated claims are sourced from. It is
	// accepted and stored but has no effect on the current checks.
	hdr bool

	reqGrants jsonvalue.Object
	status    string
}

// NewPolicy creates a Policy requiring tokens to carry alg. Time checks
// are disabled until SetNow is called with a non-zero value.
func NewPolicy(alg jws.Algorithm) (*Policy, error) {
	if !alg.Valid() {
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalid, alg)
	}
	return &Policy{
		alg:       alg,
		reqGrants: jsonvalue.New(),
	}, nil
}

// SetNow sets the evaluation time, in Unix seconds, used for the exp and
// nbf checks. A zero value disables both checks.
func (p *Policy) SetNow(now int64) {
	p.now = now
}

// SetHeaders stores the replicated-claim source selector.
func (p *Policy) SetHeaders(hdr bool) {
	p.hdr = hdr
}

// RequireGrant adds a string-valued grant tokens must carry.
func (p *Policy) RequireGrant(name, value string) error {
	return addScalar(p.reqGrants, name, value)
}

// RequireGrantInt adds an integer-valued grant tokens must carry.
func (p *Policy) RequireGrantInt(name string, value int64) error {
	return addScalar(p.reqGrants, name, value)
}

// RequireGrantBool adds a boolean-valued grant tokens must carry.
func (p *Policy) RequireGrantBool(name string, value bool) error {
	return addScalar(p.reqGrants, name, value)
}

// RequireGrantsJSON parses blob as a JSON object and merges its entries
// into the required grants.
func (p *Policy) RequireGrantsJSON(blob []byte) error {
	return mergeJSON(p.reqGrants, blob)
}

// DelRequiredGrants removes the required grant stored at name. An empty
// name clears all required grants.
func (p *Policy) DelRequiredGrants(name string) {
	if name == "" {
		p.reqGrants.Clear()
		return
	}
	p.reqGrants.Delete(name)
}

// Status returns the human-readable result of the most recent Validate
// call.
func (p *Policy) Status() string {
	return p.status
}

// Validate checks t against p and reports whether it passed together with
// a human-readable status. Checks run in a fixed order: algorithm match,
// expiration, maturity, replicated-claim consistency for iss, sub and
// aud, then the required grants; the first failing check determines the
// status.
func (p *Policy) Validate(t *Token) (bool, string) {
	p.status = p.validate(t)
	return p.status == StatusValid, p.status
}

func (p *Policy) validate(t *Token) string {
	if t == nil {
		return StatusInvalidToken
	}

	if p.alg != t.alg {
		return StatusAlgorithmMismatch
	}

	if p.now != 0 {
		if exp, err := t.grants.GetInt(ClaimExpirationTime); err == nil && p.now >= exp {
			return StatusExpired
		}
		if nbf, err := t.grants.GetInt(ClaimNotBefore); err == nil && p.now < nbf {
			return StatusNotMatured
		}
	}

	for _, name := range []string{ClaimIssuer, ClaimSubject} {
		h, herr := t.headers.GetString(name)
		g, gerr := t.grants.GetString(name)
		if herr == nil && gerr == nil && h != g {
			return fmt.Sprintf("JWT %q header does not match", name)
		}
	}

	if t.headers.Has(ClaimAudience) && t.grants.Has(ClaimAudience) {
		h, _ := t.headers.Get(ClaimAudience)
		g, _ := t.grants.Get(ClaimAudience)
		if !jsonvalue.ValueEqual(h, g) {
			return fmt.Sprintf("JWT %q header does not match", ClaimAudience)
		}
	}

	// Required grants are checked in name order so the reported grant is
	// deterministic when several mismatch.
	names := make([]string, 0, len(p.reqGrants))
	p.reqGrants.Range(func(name string, _ any) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)

	for _, name := range names {
		expected, _ := p.reqGrants.Get(name)
		actual, err := t.grants.Get(name)
		if err != nil {
			return fmt.Sprintf("JWT %q grant is not present", name)
		}
		if !jsonvalue.ValueEqual(expected, actual) {
			return fmt.Sprintf("JWT %q grant does not match", name)
		}
	}

	return StatusValid
}
