package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"auction-tool-backend/internal/common/validation"
	"auction-tool-backend/internal/features/auction/models"
)

var (
	hexColorRe = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)
	nonDigitRe = regexp.MustCompile(`[^\d]`)
)

// DraftService validates and assembles per-operator drafts into publishable
// auction specs. One draft per operator; the draft is reset on successful
// publish.
type DraftService struct {
	clock Clock
	loc   *time.Location

	mu     sync.Mutex
	drafts map[string]*models.Draft
}

// NewDraftService creates a draft service resolving bare HH:MM deadlines in
// loc.
func NewDraftService(clock Clock, loc *time.Location) *DraftService {
	return &DraftService{
		clock:  clock,
		loc:    loc,
		drafts: make(map[string]*models.Draft),
	}
}

func (s *DraftService) draftFor(operatorID string) *models.Draft {
	d, ok := s.drafts[operatorID]
	if !ok {
		d = models.NewDraft()
		s.drafts[operatorID] = d
	}
	return d
}

// SetBasics validates and stores the required draft fields. Nothing is
// mutated when any field fails validation.
func (s *DraftService) SetBasics(operatorID, title, description, colorHex, minBidText, endTimeText string) error {
	if err := validation.ValidateTitle(title); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteDraft, err)
	}
	if err := validation.ValidateDescription(description); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteDraft, err)
	}

	color := models.DefaultColor
	if colorHex = strings.TrimPrefix(strings.TrimSpace(colorHex), "#"); colorHex != "" {
		if !hexColorRe.MatchString(colorHex) {
			return ErrInvalidColor
		}
		parsed, err := strconv.ParseInt(colorHex, 16, 32)
		if err != nil {
			return ErrInvalidColor
		}
		color = int(parsed)
	}

	minBid, err := ParseAmount(minBidText)
	if err != nil {
		return err
	}

	endTime, err := ParseDeadline(endTimeText, s.clock.Now(), s.loc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftFor(operatorID)
	d.Title = strings.TrimSpace(title)
	d.Description = strings.TrimSpace(description)
	d.Color = color
	d.MinimumBid = minBid
	d.EndTime = &endTime
	return nil
}

// SetMedia stores the optional cosmetic fields.
func (s *DraftService) SetMedia(operatorID, footer, thumbnailURL, imageURL string) error {
	if err := validation.ValidateFooter(footer); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteDraft, err)
	}
	if err := validation.ValidateImageURL(thumbnailURL); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteDraft, err)
	}
	if err := validation.ValidateImageURL(imageURL); err != nil {
		return fmt.Errorf("%w: %s", ErrIncompleteDraft, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.draftFor(operatorID)
	d.Footer = strings.TrimSpace(footer)
	d.ThumbnailURL = strings.TrimSpace(thumbnailURL)
	d.ImageURL = strings.TrimSpace(imageURL)
	return nil
}

// Preview returns the draft rendered as the operator-facing preview card.
func (s *DraftService) Preview(operatorID string) models.CardContent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.draftFor(operatorID).PreviewCard()
}

// SnapshotForPublish validates completeness, re-checks that the deadline is
// still in the future and returns an immutable spec. The draft itself is
// left untouched; Reset discards it after a successful publish.
func (s *DraftService) SnapshotForPublish(operatorID string) (models.AuctionSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[operatorID]
	if !ok || !d.IsComplete() {
		return models.AuctionSpec{}, ErrIncompleteDraft
	}

	// Drafting and publishing are separated in time, so the deadline is
	// re-checked at the moment of publish.
	if !d.EndTime.After(s.clock.Now()) {
		return models.AuctionSpec{}, ErrPastDeadline
	}

	return models.AuctionSpec{
		Title:        d.Title,
		Description:  d.Description,
		Color:        d.Color,
		Footer:       d.Footer,
		ThumbnailURL: d.ThumbnailURL,
		ImageURL:     d.ImageURL,
		MinimumBid:   d.MinimumBid,
		EndTime:      *d.EndTime,
	}, nil
}

// Reset discards the operator's draft.
func (s *DraftService) Reset(operatorID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, operatorID)
}

// ParseAmount parses a money amount after stripping every non-digit
// character, so "15,000" and "15000 coins" both read as 15000. Zero or empty
// input yields ErrInvalidAmount.
func ParseAmount(text string) (int64, error) {
	digits := nonDigitRe.ReplaceAllString(text, "")
	if digits == "" {
		return 0, ErrInvalidAmount
	}

	amount, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || amount <= 0 {
		return 0, ErrInvalidAmount
	}
	return amount, nil
}
