package queue

import (
	"context"
	"errors"
	"strings"

	"collective-chat-service/internal/models"
	"collective-chat-service/internal/repositories"
)

// Bounds for queue sizing. minPeople is the promotion threshold, maxPeople
// the hard cap; minPeople may be below maxPeople, in which case a queue can
// promote before it is full.
const (
	MinPeopleFloor = 2
	MaxPeopleFloor = 4
	MaxPeopleCeil  = 12
)

// LifecycleService defines the queue formation operations the handlers
// depend on.
type LifecycleService interface {
	Create(ctx context.Context, params CreateParams) (models.GroupChatQueue, error)
	Join(ctx context.Context, queueID int, userID int) (JoinResult, error)
	Leave(ctx context.Context, queueID int, userID int) (models.GroupChatQueue, error)
	Cancel(ctx context.Context, queueID int, requesterID int) error
	ListQueues(ctx context.Context) ([]models.GroupChatQueue, error)
}

// CreateParams carries the inputs for a new queue.
type CreateParams struct {
	CreatorID   int
	Title       string
	Description string
	Intention   models.Intention
	MinPeople   int
	MaxPeople   int
}

// JoinResult is the outcome of a join. When the join pushed the queue over
// its quorum, Promoted is true, Chat holds the new group chat, and Queue is
// the final snapshot of the now-deleted queue.
type JoinResult struct {
	Queue    models.GroupChatQueue
	Promoted bool
	Chat     *models.GroupChat
}

// Service orchestrates queue create/join/leave/cancel and triggers
// promotion once quorum is reached.
type Service struct {
	queues repositories.QueueRepository
	chats  repositories.GroupChatRepository
	locks  *queueLocks
}

var _ LifecycleService = (*Service)(nil)

// NewService constructs a Service.
func NewService(queues repositories.QueueRepository, chats repositories.GroupChatRepository) *Service {
	return &Service{
		queues: queues,
		chats:  chats,
		locks:  newQueueLocks(),
	}
}

// Create validates the inputs and creates a queue with the creator as its
// sole initial member.
func (s *Service) Create(ctx context.Context, params CreateParams) (models.GroupChatQueue, error) {
	if err := validateCreate(params); err != nil {
		return models.GroupChatQueue{}, err
	}

	return s.queues.CreateQueue(ctx, repositories.CreateQueueInput{
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Intention:   params.Intention,
		MinPeople:   params.MinPeople,
		MaxPeople:   params.MaxPeople,
		CreatorID:   params.CreatorID,
	})
}

func validateCreate(params CreateParams) error {
	if strings.TrimSpace(params.Title) == "" {
		return &ValidationError{Message: "title must not be empty"}
	}
	if !params.Intention.Valid() {
		return &ValidationError{Message: "unknown intention"}
	}
	if params.MinPeople < MinPeopleFloor {
		return &ValidationError{Message: "minPeople must be at least 2"}
	}
	if params.MaxPeople < MaxPeopleFloor {
		return &ValidationError{Message: "maxPeople must be at least 4"}
	}
	if params.MaxPeople > MaxPeopleCeil {
		return &ValidationError{Message: "maxPeople must be at most 12"}
	}
	if params.MinPeople > params.MaxPeople {
		return &ValidationError{Message: "minPeople must not exceed maxPeople"}
	}
	return nil
}

// Join adds the user to the queue and promotes it into a group chat when the
// quorum is reached. The whole check-add-promote sequence holds the queue's
// lock, so concurrent joins cannot overshoot maxPeople and promotion fires
// at most once.
func (s *Service) Join(ctx context.Context, queueID int, userID int) (JoinResult, error) {
	unlock := s.locks.lock(queueID)
	defer unlock()

	q, err := s.queues.GetQueue(ctx, queueID)
	if err != nil {
		return JoinResult{}, err
	}

	if q.HasMember(userID) {
		// Idempotent join: the record is returned unchanged.
		return JoinResult{Queue: q}, nil
	}
	if len(q.Members) >= q.MaxPeople {
		return JoinResult{}, ErrQueueFull
	}

	if err := s.queues.AddMember(ctx, queueID, userID); err != nil {
		return JoinResult{}, err
	}
	q, err = s.queues.GetQueue(ctx, queueID)
	if err != nil {
		return JoinResult{}, err
	}

	if !QuorumReached(q) {
		return JoinResult{Queue: q}, nil
	}

	chat, err := s.chats.CreateFromQueue(ctx, queueID)
	if errors.Is(err, repositories.ErrQueueNotFound) {
		// Another instance won the promotion race; the queue is gone and
		// exactly one chat exists. Treat this join's promotion as done.
		return JoinResult{Queue: q, Promoted: true}, nil
	}
	if err != nil {
		return JoinResult{}, err
	}
	return JoinResult{Queue: q, Promoted: true, Chat: &chat}, nil
}

// Leave removes the user from the queue. Leaving a queue one is not a member
// of is a no-op. The creator leaving is treated like any other member
// leaving; a queue whose last member leaves is deleted.
func (s *Service) Leave(ctx context.Context, queueID int, userID int) (models.GroupChatQueue, error) {
	unlock := s.locks.lock(queueID)
	defer unlock()

	q, err := s.queues.GetQueue(ctx, queueID)
	if err != nil {
		return models.GroupChatQueue{}, err
	}
	if !q.HasMember(userID) {
		return q, nil
	}

	if err := s.queues.RemoveMember(ctx, queueID, userID); err != nil {
		return models.GroupChatQueue{}, err
	}
	q, err = s.queues.GetQueue(ctx, queueID)
	if err != nil {
		return models.GroupChatQueue{}, err
	}

	if len(q.Members) == 0 {
		if err := s.queues.DeleteQueue(ctx, queueID); err != nil && !errors.Is(err, repositories.ErrQueueNotFound) {
			return models.GroupChatQueue{}, err
		}
	}
	return q, nil
}

// Cancel deletes the queue outright. Only the creator may cancel; no chat is
// created.
func (s *Service) Cancel(ctx context.Context, queueID int, requesterID int) error {
	unlock := s.locks.lock(queueID)
	defer unlock()

	q, err := s.queues.GetQueue(ctx, queueID)
	if err != nil {
		return err
	}
	if q.CreatorID != requesterID {
		return ErrNotCreator
	}
	return s.queues.DeleteQueue(ctx, queueID)
}

// ListQueues returns a snapshot of all active queues for client polling.
func (s *Service) ListQueues(ctx context.Context) ([]models.GroupChatQueue, error) {
	return s.queues.ListActiveQueues(ctx)
}
