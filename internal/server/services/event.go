package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"eventhub/internal/common"
	"eventhub/internal/dbx"
	sc "eventhub/internal/server/config"
	"eventhub/internal/server/models"
	"eventhub/internal/server/repositories/events"
	"eventhub/internal/server/repositories/repomanager"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// EventInput is the writable portion of an event.
type EventInput struct {
	Title            string
	ShortDescription string
	FullDescription  string
	Date             time.Time
	StartTime        string
	LocationID       int64
	CategoryIDs      []int64
}

type EventService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewEventService(db *sql.DB, m repomanager.RepositoryManager, config *sc.Config) *EventService {
	return &EventService{
		db:          db,
		repomanager: m,
		config:      config,
	}
}

func (s *EventService) List(ctx context.Context, f events.Filter, limit, offset int) ([]*models.Event, int64, error) {

	repo := s.repomanager.Events(s.db)

	items, err := repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := repo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListWithStatus is List with the caller's like/registration flags attached
// to every event.
func (s *EventService) ListWithStatus(ctx context.Context, userID int64, f events.Filter, limit, offset int) ([]*models.EventWithStatus, int64, error) {

	items, total, err := s.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	withStatus, err := s.attachStatus(ctx, userID, items)
	if err != nil {
		return nil, 0, err
	}

	return withStatus, total, nil
}

func (s *EventService) attachStatus(ctx context.Context, userID int64, items []*models.Event) ([]*models.EventWithStatus, error) {

	repo := s.repomanager.Events(s.db)

	result := make([]*models.EventWithStatus, 0, len(items))
	for _, e := range items {
		liked, err := repo.IsLiked(ctx, e.ID, userID)
		if err != nil {
			return nil, err
		}
		registered, err := repo.IsRegistered(ctx, e.ID, userID)
		if err != nil {
			return nil, err
		}
		result = append(result, &models.EventWithStatus{Event: e, IsLiked: liked, IsRegistered: registered})
	}

	return result, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	return s.repomanager.Events(s.db).GetByID(ctx, id)
}

func (s *EventService) GetByIDWithStatus(ctx context.Context, userID, id int64) (*models.EventWithStatus, error) {

	event, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	withStatus, err := s.attachStatus(ctx, userID, []*models.Event{event})
	if err != nil {
		return nil, err
	}

	return withStatus[0], nil
}

// validateReferences checks that the location and every category referenced
// by the input exist.
func (s *EventService) validateReferences(ctx context.Context, in *EventInput) error {

	if _, err := s.repomanager.Locations(s.db).GetByID(ctx, in.LocationID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("%w: location %d does not exist", common.ErrorValidation, in.LocationID)
		}
		return err
	}

	if len(in.CategoryIDs) == 0 {
		return nil
	}

	found, err := s.repomanager.Categories(s.db).GetByIDs(ctx, in.CategoryIDs)
	if err != nil {
		return err
	}

	known := make(map[int64]bool, len(found))
	for _, c := range found {
		known[c.ID] = true
	}
	for _, id := range in.CategoryIDs {
		if !known[id] {
			return fmt.Errorf("%w: category %d does not exist", common.ErrorValidation, id)
		}
	}

	return nil
}

func (s *EventService) Create(ctx context.Context, organizerID int64, in *EventInput) (*models.Event, error) {

	if err := s.validateReferences(ctx, in); err != nil {
		return nil, err
	}

	event := &models.Event{
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		FullDescription:  in.FullDescription,
		Date:             in.Date,
		StartTime:        in.StartTime,
		LocationID:       in.LocationID,
		OrganizerID:      organizerID,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		created, err := repo.Create(ctx, event)
		if err != nil {
			return err
		}

		return repo.ReplaceCategories(ctx, created.ID, in.CategoryIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating event: %w", err)
	}

	return s.GetByID(ctx, event.ID)
}

// Update rewrites an event. Only the organizer may do it.
func (s *EventService) Update(ctx context.Context, userID, eventID int64, in *EventInput) (*models.Event, error) {

	current, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if current.OrganizerID != userID {
		return nil, common.ErrorForbidden
	}

	if err := s.validateReferences(ctx, in); err != nil {
		return nil, err
	}

	event := &models.Event{
		ID:               eventID,
		Title:            in.Title,
		ShortDescription: in.ShortDescription,
		FullDescription:  in.FullDescription,
		Date:             in.Date,
		StartTime:        in.StartTime,
		LocationID:       in.LocationID,
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		if err := repo.Update(ctx, event); err != nil {
			return err
		}

		return repo.ReplaceCategories(ctx, eventID, in.CategoryIDs)
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, eventID)
}

// Delete removes an event. Only the organizer may do it.
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {

	current, err := s.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if current.OrganizerID != userID {
		return common.ErrorForbidden
	}

	return s.repomanager.Events(s.db).Delete(ctx, eventID)
}

// ToggleLike flips the caller's like on an event and returns the new state.
func (s *EventService) ToggleLike(ctx context.Context, userID, eventID int64) (bool, error) {

	if _, err := s.GetByID(ctx, eventID); err != nil {
		return false, err
	}

	var liked bool

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		isLiked, err := repo.IsLiked(ctx, eventID, userID)
		if err != nil {
			return err
		}

		if isLiked {
			liked = false
			return repo.RemoveLike(ctx, eventID, userID)
		}

		liked = true
		return repo.AddLike(ctx, eventID, userID)
	})
	if err != nil {
		return false, err
	}

	return liked, nil
}

// Register signs the caller up for an event. Registering twice fails with
// common.ErrorAlreadyExists.
func (s *EventService) Register(ctx context.Context, userID, eventID int64) error {

	if _, err := s.GetByID(ctx, eventID); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		registered, err := repo.IsRegistered(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if registered {
			return fmt.Errorf("%w: already registered for this event", common.ErrorAlreadyExists)
		}

		return repo.AddRegistration(ctx, eventID, userID)
	})
}

// Unregister removes the caller's registration. Unregistering without a
// registration fails validation.
func (s *EventService) Unregister(ctx context.Context, userID, eventID int64) error {

	if _, err := s.GetByID(ctx, eventID); err != nil {
		return err
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Events(tx)

		registered, err := repo.IsRegistered(ctx, eventID, userID)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("%w: not registered for this event", common.ErrorValidation)
		}

		return repo.RemoveRegistration(ctx, eventID, userID)
	})
}

func (s *EventService) Stats(ctx context.Context, userID int64) (*models.EventStats, error) {
	return s.repomanager.Events(s.db).Stats(ctx, userID)
}

func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("events/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *EventService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

// CreateImageUploadURL issues a presigned PUT URL for the event poster and
// records the storage key on the event. Only the organizer may do it.
func (s *EventService) CreateImageUploadURL(ctx context.Context, userID, eventID int64) (string, string, error) {

	current, err := s.GetByID(ctx, eventID)
	if err != nil {
		return "", "", err
	}
	if current.OrganizerID != userID {
		return "", "", common.ErrorForbidden
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", "", err
	}

	bucket := s.config.S3Bucket
	key := GetRandomStorageKey()

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", "", err
	}

	if err := s.repomanager.Events(s.db).SetImageKey(ctx, eventID, key); err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// GetImageURL issues a presigned GET URL for the event poster. Events
// without an uploaded poster report common.ErrorNotFound.
func (s *EventService) GetImageURL(ctx context.Context, eventID int64) (string, error) {

	current, err := s.GetByID(ctx, eventID)
	if err != nil {
		return "", err
	}
	if current.ImageKey == "" {
		return "", common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &current.ImageKey,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
