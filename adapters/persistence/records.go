package persistence

import (
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/talent-identity/internal/domain/profile"
	"github.com/khoahotran/talent-identity/internal/domain/user"
)

// profileRecord is the stored shape of a profile. Unlike the domain type it
// keeps asset public ids, so it cannot reuse the domain JSON tags.
type profileRecord struct {
	Bio                      string   `bson:"bio" json:"bio"`
	Skills                   []string `bson:"skills" json:"skills"`
	ProfilePhoto             string   `bson:"profilePhoto" json:"profilePhoto"`
	ProfilePhotoPublicID     string   `bson:"profilePhotoPublicId" json:"profilePhotoPublicId"`
	ProfilePhotoResourceType string   `bson:"profilePhotoResourceType,omitempty" json:"profilePhotoResourceType,omitempty"`
	Resume                   string   `bson:"resume" json:"resume"`
	ResumeOriginalName       string   `bson:"resumeOriginalName" json:"resumeOriginalName"`
	ResumePublicID           string   `bson:"resumePublicId" json:"resumePublicId"`
	ResumeResourceType       string   `bson:"resumeResourceType,omitempty" json:"resumeResourceType,omitempty"`
}

type userRecord struct {
	ID           string        `bson:"_id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PhoneNumber  string        `bson:"phoneNumber" json:"phoneNumber"`
	PasswordHash string        `bson:"password" json:"password"`
	Role         string        `bson:"role" json:"role"`
	Profile      profileRecord `bson:"profile" json:"profile"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func toProfileRecord(p profile.Profile) profileRecord {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return profileRecord{
		Bio:                      p.Bio,
		Skills:                   skills,
		ProfilePhoto:             p.ProfilePhoto,
		ProfilePhotoPublicID:     p.ProfilePhotoPublicID,
		ProfilePhotoResourceType: p.ProfilePhotoResourceType,
		Resume:                   p.Resume,
		ResumeOriginalName:       p.ResumeOriginalName,
		ResumePublicID:           p.ResumePublicID,
		ResumeResourceType:       p.ResumeResourceType,
	}
}

func (r profileRecord) toDomain() profile.Profile {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return profile.Profile{
		Bio:                      r.Bio,
		Skills:                   skills,
		ProfilePhoto:             r.ProfilePhoto,
		ProfilePhotoPublicID:     r.ProfilePhotoPublicID,
		ProfilePhotoResourceType: r.ProfilePhotoResourceType,
		Resume:                   r.Resume,
		ResumeOriginalName:       r.ResumeOriginalName,
		ResumePublicID:           r.ResumePublicID,
		ResumeResourceType:       r.ResumeResourceType,
	}
}

func toUserRecord(u *user.User) userRecord {
	return userRecord{
		ID:           u.ID.String(),
		Name:         u.Name,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Profile:      toProfileRecord(u.Profile),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRecord) toDomain() (*user.User, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return &user.User{
		ID:           id,
		Name:         r.Name,
		Email:        r.Email,
		PhoneNumber:  r.PhoneNumber,
		PasswordHash: r.PasswordHash,
		Role:         user.Role(r.Role),
		Profile:      r.Profile.toDomain(),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}, nil
}
