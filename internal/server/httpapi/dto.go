package httpapi

import (
	"fmt"
	"regexp"
	"time"

	"eventhub/internal/common"
	"eventhub/internal/server/models"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validatePassword enforces the minimum password policy: at least 8
// characters with at least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", common.ErrorValidation)
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
			hasLetter = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain a letter and a digit", common.ErrorValidation)
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}
	return nil
}

type registerRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

func (r *registerRequest) validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.FirstName == "" || r.LastName == "" {
		return fmt.Errorf("%w: first_name and last_name are required", common.ErrorValidation)
	}
	return validatePassword(r.Password)
}

// loginRequest accepts both JSON and the classic OAuth2 password form,
// where the email travels in the username field.
type loginRequest struct {
	Email    string `json:"email" form:"username"`
	Password string `json:"password" form:"password"`
}

// tokenResponse carries the access token together with the profile of the
// user it was issued to.
type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toTokenResponse(u *models.User, token string) tokenResponse {
	return tokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

func (r *updateProfileRequest) validate() error {
	if r.FirstName != nil && *r.FirstName == "" {
		return fmt.Errorf("%w: first_name must not be empty", common.ErrorValidation)
	}
	if r.LastName != nil && *r.LastName == "" {
		return fmt.Errorf("%w: last_name must not be empty", common.ErrorValidation)
	}
	return nil
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type locationResponse struct {
	ID     int64  `json:"id"`
	City   string `json:"city"`
	Street string `json:"street"`
	House  string `json:"house"`
}

func toLocationResponse(l *models.Location) locationResponse {
	return locationResponse{ID: l.ID, City: l.City, Street: l.Street, House: l.House}
}

type createLocationRequest struct {
	City   string `json:"city"`
	Street string `json:"street"`
	House  string `json:"house"`
}

func (r *createLocationRequest) validate() error {
	if r.City == "" || r.Street == "" || r.House == "" {
		return fmt.Errorf("%w: city, street and house are required", common.ErrorValidation)
	}
	return nil
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (r *createCategoryRequest) validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	return nil
}

type eventRequest struct {
	Title            string  `json:"title"`
	ShortDescription string  `json:"short_description"`
	FullDescription  string  `json:"full_description"`
	Date             string  `json:"date"`
	StartTime        string  `json:"start_time"`
	LocationID       int64   `json:"location_id"`
	CategoryIDs      []int64 `json:"category_ids"`
}

var startTimePattern = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// parse validates the request and converts it to a service input. The event
// date must not be in the past.
func (r *eventRequest) parse() (date time.Time, err error) {
	if r.Title == "" {
		return time.Time{}, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if r.LocationID == 0 {
		return time.Time{}, fmt.Errorf("%w: location_id is required", common.ErrorValidation)
	}
	date, err = time.Parse("2006-01-02", r.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", common.ErrorValidation)
	}
	// The parsed date is UTC midnight, so compare against the server's local
	// calendar date expressed the same way. Truncating time.Now() would give
	// UTC midnight and mark today as past for zones behind UTC.
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, fmt.Errorf("%w: date must not be in the past", common.ErrorValidation)
	}
	if !startTimePattern.MatchString(r.StartTime) {
		return time.Time{}, fmt.Errorf("%w: start_time must be HH:MM or HH:MM:SS", common.ErrorValidation)
	}
	return date, nil
}

type eventResponse struct {
	ID                int64              `json:"id"`
	Title             string             `json:"title"`
	ShortDescription  string             `json:"short_description"`
	FullDescription   string             `json:"full_description"`
	Date              string             `json:"date"`
	StartTime         string             `json:"start_time"`
	Location          locationResponse   `json:"location"`
	Organizer         userResponse       `json:"organizer"`
	Categories        []categoryResponse `json:"categories"`
	LikesCount        int64              `json:"likes_count"`
	ParticipantsCount int64              `json:"participants_count"`
	ImageKey          string             `json:"image_key,omitempty"`
}

func toEventResponse(e *models.Event) eventResponse {
	resp := eventResponse{
		ID:                e.ID,
		Title:             e.Title,
		ShortDescription:  e.ShortDescription,
		FullDescription:   e.FullDescription,
		Date:              e.Date.Format("2006-01-02"),
		StartTime:         e.StartTime,
		LikesCount:        e.LikesCount,
		ParticipantsCount: e.ParticipantsCount,
		ImageKey:          e.ImageKey,
		Categories:        make([]categoryResponse, 0, len(e.Categories)),
	}
	if e.Location != nil {
		resp.Location = toLocationResponse(e.Location)
	}
	if e.Organizer != nil {
		resp.Organizer = toUserResponse(e.Organizer)
	}
	for _, c := range e.Categories {
		resp.Categories = append(resp.Categories, categoryResponse{ID: c.ID, Name: c.Name})
	}
	return resp
}

type eventWithStatusResponse struct {
	eventResponse
	IsLiked      bool `json:"is_liked"`
	IsRegistered bool `json:"is_registered"`
}

func toEventWithStatusResponse(e *models.EventWithStatus) eventWithStatusResponse {
	return eventWithStatusResponse{
		eventResponse: toEventResponse(e.Event),
		IsLiked:       e.IsLiked,
		IsRegistered:  e.IsRegistered,
	}
}

type statsResponse struct {
	CreatedEvents    int64 `json:"created_events"`
	LikedEvents      int64 `json:"liked_events"`
	RegisteredEvents int64 `json:"registered_events"`
}

type likeResponse struct {
	IsLiked bool `json:"is_liked"`
}

type imageUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
}

type imageURLResponse struct {
	URL string `json:"url"`
}
