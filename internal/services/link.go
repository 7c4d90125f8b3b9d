package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adnanrahim110/payment-portal/internal/lifecycle"
	"github.com/adnanrahim110/payment-portal/internal/models"
	"github.com/adnanrahim110/payment-portal/internal/security"
)

// LinkStore is the persistence boundary for payment links.
type LinkStore interface {
	Create(ctx context.Context, in CreateLinkInput) (*models.PaymentLink, error)
	GetBySecureID(ctx context.Context, secureID string) (*models.PaymentLink, error)
	List(ctx context.Context, statusFilter, startDate, endDate *string) ([]models.PaymentLink, error)
	RecordAttempt(ctx context.Context, secureID string, now time.Time) (*models.PaymentLink, error)
	Complete(ctx context.Context, secureID string, now time.Time) (*models.PaymentLink, error)
}

type CreateLinkInput struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaymentAccount string  `json:"payment_account"`
	Description    string  `json:"description"`
	SalesEmail     string  `json:"sales_email"`
	CustomerEmail  string  `json:"customer_email"`
}

// linkTTL is how long a link stays payable after creation. Fixed at
// creation, never extended.
const linkTTL = 24 * time.Hour

// LinkService implements LinkStore on a MongoDB collection.
type LinkService struct {
	collection *mongo.Collection
}

func NewLinkService(db *mongo.Database) *LinkService {
	return &LinkService{collection: db.Collection("payments")}
}

// EnsureIndexes creates the indexes the payments collection needs.
func (s *LinkService) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.M{"secure_id": 1},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.M{"status": 1, "created_at": -1}},
	}
	_, err := s.collection.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		log.Printf("Failed to create indexes: %v", err)
		return fmt.Errorf("failed to create indexes: %v", err)
	}
	return nil
}

// buildLink validates in and constructs a fresh pending link.
func buildLink(in CreateLinkInput, now time.Time) (*models.PaymentLink, error) {
	in.Currency = strings.TrimSpace(in.Currency)
	in.PaymentAccount = strings.TrimSpace(in.PaymentAccount)
	in.Description = strings.TrimSpace(in.Description)
	in.SalesEmail = strings.TrimSpace(in.SalesEmail)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)

	if in.Amount <= 0 {
		return nil, &ValidationError{Message: "Amount must be positive."}
	}
	if !models.ValidCurrency(in.Currency) {
		return nil, &ValidationError{Message: "Currency must be one of USD, GBP, CAD, EUR."}
	}
	if in.Description == "" {
		return nil, &ValidationError{Message: "Description is required."}
	}
	if in.SalesEmail == "" {
		return nil, &ValidationError{Message: "Sales email is required."}
	}
	if in.CustomerEmail == "" {
		return nil, &ValidationError{Message: "Customer email is required."}
	}

	var provider models.Provider
	switch {
	case strings.HasPrefix(in.PaymentAccount, "Stripe "):
		provider = models.ProviderStripe
	case strings.HasPrefix(in.PaymentAccount, "PayPal "):
		provider = models.ProviderPayPal
	default:
		return nil, &ValidationError{Message: "Payment account must be a configured Stripe or PayPal account."}
	}

	secureID, err := security.NewLinkID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate link id: %v", err)
	}

	return &models.PaymentLink{
		SecureID:        secureID,
		Amount:          in.Amount,
		Currency:        in.Currency,
		PaymentAccount:  in.PaymentAccount,
		Provider:        provider,
		Description:     in.Description,
		SalesEmail:      in.SalesEmail,
		CustomerEmail:   in.CustomerEmail,
		Status:          models.StatusPending,
		PaymentAttempts: 0,
		ExpiresAt:       now.Add(linkTTL),
		CreatedAt:       now,
	}, nil
}

func (s *LinkService) Create(ctx context.Context, in CreateLinkInput) (*models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	link, err := buildLink(in, time.Now())
	if err != nil {
		return nil, err
	}

	if _, err := s.collection.InsertOne(ctx, link); err != nil {
		log.Printf("Failed to save payment link: %v", err)
		return nil, fmt.Errorf("failed to save payment link: %v", err)
	}

	log.Printf("Payment link created: secure_id=%s, account=%s, amount=%.2f %s",
		link.SecureID, link.PaymentAccount, link.Amount, link.Currency)
	return link, nil
}

func (s *LinkService) GetBySecureID(ctx context.Context, secureID string) (*models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var link models.PaymentLink
	if err := s.collection.FindOne(ctx, bson.M{"secure_id": secureID}).Decode(&link); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrLinkNotFound
		}
		log.Printf("Failed to fetch payment link %s: %v", secureID, err)
		return nil, fmt.Errorf("failed to fetch payment link: %v", err)
	}

	return &link, nil
}

// List returns payment links, newest first, optionally filtered by
// status and created-at date range (RFC3339).
func (s *LinkService) List(ctx context.Context, statusFilter, startDate, endDate *string) ([]models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	query := bson.M{}

	if statusFilter != nil && *statusFilter != "" {
		if *statusFilter != string(models.StatusPending) && *statusFilter != string(models.StatusCompleted) {
			return nil, &ValidationError{Message: "Status filter must be pending or completed."}
		}
		query["status"] = *statusFilter
	}

	if startDate != nil && *startDate != "" && endDate != nil && *endDate != "" {
		start, err := time.Parse(time.RFC3339, *startDate)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid start_date format: %v.", err)}
		}
		end, err := time.Parse(time.RFC3339, *endDate)
		if err != nil {
			return nil, &ValidationError{Message: fmt.Sprintf("Invalid end_date format: %v.", err)}
		}
		query["created_at"] = bson.M{
			"$gte": start,
			"$lte": end,
		}
	}

	cur, err := s.collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		log.Printf("Failed to fetch payment links: %v", err)
		return nil, fmt.Errorf("failed to fetch payment links: %v", err)
	}

	var links []models.PaymentLink
	defer cur.Close(ctx)
	if err := cur.All(ctx, &links); err != nil {
		log.Printf("Failed to decode payment links: %v", err)
		return nil, fmt.Errorf("failed to decode payment links: %v", err)
	}

	return links, nil
}

// RecordAttempt increments the attempt counter by one, but only while
// the link is still payable. The eligibility check and the increment
// run as a single conditional update, so two concurrent checkouts
// cannot push the counter past the limit.
func (s *LinkService) RecordAttempt(ctx context.Context, secureID string, now time.Time) (*models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"secure_id":        secureID,
		"status":           models.StatusPending,
		"expires_at":       bson.M{"$gt": now},
		"payment_attempts": bson.M{"$lt": lifecycle.MaxAttempts},
	}
	update := bson.M{"$inc": bson.M{"payment_attempts": 1}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var link models.PaymentLink
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&link)
	if err == nil {
		log.Printf("Payment attempt recorded: secure_id=%s, attempts=%d", secureID, link.PaymentAttempts)
		return &link, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Failed to record attempt for %s: %v", secureID, err)
		return nil, fmt.Errorf("failed to record payment attempt: %v", err)
	}

	// The conditional update missed: the link is gone or no longer
	// payable. Re-fetch to report which.
	current, err := s.GetBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if stateErr := stateError(lifecycle.Evaluate(current, now)); stateErr != nil {
		return nil, stateErr
	}
	return nil, fmt.Errorf("failed to record payment attempt for %s", secureID)
}

// Complete marks the link paid. The transition is conditional on the
// link still being pending and unexpired, so an expired link cannot be
// completed through a forged callback. Attempt exhaustion does not
// block completion: a legitimate payment on the final attempt leaves
// the counter at the limit before the completion call arrives.
// Completing an already-completed link is a no-op.
func (s *LinkService) Complete(ctx context.Context, secureID string, now time.Time) (*models.PaymentLink, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"secure_id":  secureID,
		"status":     models.StatusPending,
		"expires_at": bson.M{"$gt": now},
	}
	update := bson.M{"$set": bson.M{"status": models.StatusCompleted}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var link models.PaymentLink
	err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&link)
	if err == nil {
		log.Printf("Payment link completed: secure_id=%s", secureID)
		return &link, nil
	}
	if err != mongo.ErrNoDocuments {
		log.Printf("Failed to complete payment link %s: %v", secureID, err)
		return nil, fmt.Errorf("failed to complete payment link: %v", err)
	}

	current, err := s.GetBySecureID(ctx, secureID)
	if err != nil {
		return nil, err
	}
	if current.Status == models.StatusCompleted {
		return current, nil
	}
	if now.After(current.ExpiresAt) {
		return nil, ErrLinkExpired
	}
	return nil, fmt.Errorf("cannot complete payment link with status %s", current.Status)
}
