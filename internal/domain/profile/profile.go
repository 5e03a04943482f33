package profile

import "strings"

// Profile is the mutable, user-facing part of an account.
type Profile struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	ProfilePhoto       string   `json:"profilePhoto"`
	Resume             string   `json:"resume"`
	ResumeOriginalName string   `json:"resumeOriginalName"`

	// Hosted asset ids and resource types, kept so replaced files can be removed.
	ProfilePhotoPublicID     string `json:"-"`
	ProfilePhotoResourceType string `json:"-"`
	ResumePublicID           string `json:"-"`
	ResumeResourceType       string `json:"-"`
}

// ParseSkills splits a comma separated list into an ordered skill list.
// Entries are trimmed, empty entries dropped and duplicates keep their first position.
func ParseSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		skills = append(skills, s)
	}
	return skills
}

// Clone returns a deep copy so callers can mutate skills without aliasing.
func (p Profile) Clone() Profile {
	out := p
	if p.Skills != nil {
		out.Skills = append([]string(nil), p.Skills...)
	}
	return out
}
