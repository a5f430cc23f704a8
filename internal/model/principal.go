package model

// Role names accepted in the JWT "role" claim.  Identity issuance lives
// in a separate service; this one only consumes the resulting tokens.
const (
    RoleMember = "MEMBER"
    RoleAdmin  = "ADMIN"
)

// Principal is the authenticated caller as extracted from a validated
// access token by the JWT middleware.  A nil *Principal means the
// request carried no valid token.
//
// Fields:
//  ID   – subject (user ID) claim.
//  Role – role claim (MEMBER or ADMIN).
type Principal struct {
    ID   uint64 // token "sub" claim
    Role string // token "role" claim
}

// IsAdmin reports whether the principal holds the administrative role.
func (p *Principal) IsAdmin() bool {
    return p != nil && p.Role == RoleAdmin
}
