package services

import (
	"context"

	"github.com/gymratia/gymratia-api/internal/models"
	"github.com/gymratia/gymratia-api/internal/projector"
	"github.com/gymratia/gymratia-api/internal/repository"
	apperrors "github.com/gymratia/gymratia-api/pkg/errors"
)

// DirectoryService serves the admin and trainer-workspace listings. Related rows are
// attached through one batched lookup per relation.
type DirectoryService struct {
	trainers  repository.TrainerStore
	profiles  repository.ProfileStore
	chatLinks repository.ChatLinkStore
}

func NewDirectoryService(
	trainers repository.TrainerStore,
	profiles repository.ProfileStore,
	chatLinks repository.ChatLinkStore,
) *DirectoryService {
	return &DirectoryService{
		trainers:  trainers,
		profiles:  profiles,
		chatLinks: chatLinks,
	}
}

// ListTrainers returns filtered trainers, each with its owner's profile
func (s *DirectoryService) ListTrainers(ctx context.Context, params models.TrainerListParams) (*models.TrainerListResponse, error) {
	trainers, err := s.trainers.ListTrainers(ctx, params)
	if err != nil {
		return nil, err
	}

	owners, err := projector.One(ctx, "trainer_owner", trainers,
		func(t *models.Trainer) string { return t.UserID },
		s.profiles.GetProfilesByUserIDs,
		func(p *models.UserProfile) string { return p.UserID },
	)
	if err != nil {
		return nil, err
	}

	result := make([]models.PortalTrainer, 0, len(trainers))
	for _, t := range trainers {
		item := models.PortalTrainer{Trainer: t}
		if p, ok := owners[t.UserID]; ok {
			item.Owner = &models.TrainerOwner{FullName: p.FullName, Email: p.Email}
		}
		result = append(result, item)
	}

	return &models.TrainerListResponse{Trainers: result, Total: len(result)}, nil
}

// ListUsers returns matching profiles with the trainers each one chats with
func (s *DirectoryService) ListUsers(ctx context.Context, params models.UserListParams) (*models.UserListResponse, error) {
	profiles, err := s.profiles.SearchProfiles(ctx, params.Query)
	if err != nil {
		return nil, err
	}

	links, err := projector.Many(ctx, "user_chat_links", profiles,
		func(p *models.UserProfile) string { return p.UserID },
		s.chatLinks.GetChatLinksByUserIDs,
		func(l *models.TrainerChatLink) string { return l.UserID },
	)
	if err != nil {
		return nil, err
	}

	users := make([]models.PortalUser, 0, len(profiles))
	for _, p := range profiles {
		slugs := projector.Keys(links[p.UserID], func(l *models.TrainerChatLink) string { return l.TrainerSlug })
		user := models.PortalUser{
			UserProfile:  p,
			TrainerSlugs: slugs,
			HasTrainer:   len(slugs) > 0,
		}
		if params.WithTrainer != nil && *params.WithTrainer != user.HasTrainer {
			continue
		}
		users = append(users, user)
	}

	return &models.UserListResponse{Users: users, Total: len(users)}, nil
}

// ListStudents returns the users chatting with the caller's trainer, in first-chat order
func (s *DirectoryService) ListStudents(ctx context.Context, userID string) (*models.StudentsResponse, error) {
	trainer, err := s.ownTrainer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return &models.StudentsResponse{Students: []models.Student{}}, nil
	}

	links, err := s.chatLinks.GetChatLinksByTrainerSlug(ctx, trainer.Slug)
	if err != nil {
		return nil, err
	}

	studentIDs := projector.Keys(links, func(l *models.TrainerChatLink) string { return l.UserID })
	profiles, err := projector.One(ctx, "student_profile", studentIDs,
		func(id string) string { return id },
		s.profiles.GetProfilesByUserIDs,
		func(p *models.UserProfile) string { return p.UserID },
	)
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(studentIDs))
	for _, id := range studentIDs {
		student := models.Student{UserID: id}
		if p, ok := profiles[id]; ok {
			student.FullName = p.FullName
			student.Email = p.Email
		}
		students = append(students, student)
	}

	return &models.StudentsResponse{Students: students}, nil
}

// TrainerStats counts distinct students of the caller's trainer
func (s *DirectoryService) TrainerStats(ctx context.Context, userID string) (*models.TrainerStats, error) {
	trainer, err := s.ownTrainer(ctx, userID)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return &models.TrainerStats{}, nil
	}

	active, err := s.chatLinks.CountStudentsByTrainerSlug(ctx, trainer.Slug)
	if err != nil {
		return nil, err
	}
	return &models.TrainerStats{ActiveStudents: active}, nil
}

// ownTrainer returns nil without error when the user has no trainer profile
func (s *DirectoryService) ownTrainer(ctx context.Context, userID string) (*models.Trainer, error) {
	trainer, err := s.trainers.GetTrainerByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return trainer, nil
}
