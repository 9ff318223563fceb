package notification

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type Service interface {
	// Notify persists a notification and pushes it to any live websocket
	// subscriber. Fire-and-forget from the caller's perspective: the
	// orchestrator logs a returned error but never fails a run on it.
	Notify(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error
	Hub() *Hub
}

type ServiceImpl struct {
	Repo   Repository
	hub    *Hub
	Logger *zap.Logger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:   repo,
		hub:    NewHub(),
		Logger: logger,
	}
}

func (s *ServiceImpl) Notify(ctx context.Context, n *Notification) error {
	if n.Type == "" {
		n.Type = NotificationTypeInfo
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	s.hub.Publish(n.UserID.Hex(), n)

	s.Logger.Debug("notification delivered",
		zap.String("user_id", n.UserID.Hex()),
		zap.String("group", n.Group))
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, userID primitive.ObjectID, page, limit int64) ([]Notification, int64, error) {
	return s.Repo.GetByUserID(ctx, userID, page, limit)
}

func (s *ServiceImpl) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.Repo.GetUnreadCount(ctx, userID)
}

func (s *ServiceImpl) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.Repo.MarkAsRead(ctx, id, userID)
}

func (s *ServiceImpl) MarkAllAsRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.Repo.MarkAllAsRead(ctx, userID)
}

func (s *ServiceImpl) Hub() *Hub {
	return s.hub
}
