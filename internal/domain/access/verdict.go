package access

// Verdict is the outcome of resolving a principal against a project.
type Verdict int

const (
	// NotFound means the project does not exist.
	NotFound Verdict = iota
	// Forbidden means the project exists but the principal has no grant.
	Forbidden
	Read
	ReadWrite
	Owner
)

var verdictNames = [...]string{
	NotFound:  "not_found",
	Forbidden: "forbidden",
	Read:      "read",
	ReadWrite: "readwrite",
	Owner:     "owner",
}

func (v Verdict) String() string {
	if v < NotFound || v > Owner {
		return "unknown"
	}
	return verdictNames[v]
}

// AllowsRead reports whether the verdict grants read access.
func (v Verdict) AllowsRead() bool {
	return v == Read || v == ReadWrite || v == Owner
}

// AllowsWrite reports whether the verdict grants write access.
func (v Verdict) AllowsWrite() bool {
	return v == ReadWrite || v == Owner
}

// IsOwner reports whether the verdict is Owner.
func (v Verdict) IsOwner() bool {
	return v == Owner
}

// Principal identifies who is asking: an authenticated user or a share token holder.
type Principal struct {
	UserID     string
	ShareToken string
}

// UserPrincipal returns a principal for an authenticated user.
func UserPrincipal(userID string) Principal {
	return Principal{UserID: userID}
}

// TokenPrincipal returns a principal for an anonymous share token holder.
func TokenPrincipal(token string) Principal {
	return Principal{ShareToken: token}
}

// Anonymous reports whether the principal carries neither a user nor a token.
func (p Principal) Anonymous() bool {
	return p.UserID == "" && p.ShareToken == ""
}
