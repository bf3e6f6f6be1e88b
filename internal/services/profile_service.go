package services

import (
	"context"

	"rentago/internal/domain"
	"rentago/internal/domain/models"
	"rentago/internal/utils"
)

type ProfileService struct {
	Profiles  ProfileStore
	RequestID string
}

// Resolve returns the caller's profile, creating a customer profile on the
// first authenticated request.
func (s ProfileService) Resolve(ctx context.Context, id domain.Identity) (models.Profile, error) {
	p, err := s.Profiles.GetByID(ctx, id.UserID)
	if err == nil {
		return p, nil
	}
	if !domain.IsNotFound(err) {
		return models.Profile{}, domain.InternalError{Msg: "gagal memuat profil", Err: err}
	}
	p, err = s.Profiles.EnsureProfile(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "profile", "ensure", "buat profil gagal user_id="+id.UserID, err)
		return models.Profile{}, domain.InternalError{Msg: "gagal membuat profil", Err: err}
	}
	utils.LogEvent(s.RequestID, "profile", "ensure", "profil baru user_id="+id.UserID)
	return p, nil
}
