package auth

// Identity is the resolved caller identity threaded explicitly through every
// service call. Subject is the identity provider's stable `sub` claim and is
// the only value used for ownership checks and audit stamping. Name is
// greeting material, nothing more.
type Identity struct {
	Subject string
	Name    string
}

// IsZero reports whether no identity was resolved.
func (id Identity) IsZero() bool {
	return id.Subject == ""
}

// ResolveIdentity applies the strict resolution rule to a claim set: an
// identity exists only when a non-empty string `sub` claim is present. A
// display name alone never yields an identity.
func ResolveIdentity(claims map[string]any) (Identity, bool) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Identity{}, false
	}
	name, _ := claims["name"].(string)
	return Identity{Subject: sub, Name: name}, true
}

// DisplayName is the loose, greeting-only resolver. It falls back to "User"
// when the claim set carries no usable name. It must never be used to compute
// record ownership.
func DisplayName(claims map[string]any) string {
	if name, ok := claims["name"].(string); ok && name != "" {
		return name
	}
	return "User"
}
