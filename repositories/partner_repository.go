package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skillbridge/skillbridge_backend/config"
	"github.com/skillbridge/skillbridge_backend/lifecycle"
	"github.com/skillbridge/skillbridge_backend/models"
	"github.com/skillbridge/skillbridge_backend/utils"
)

// Sentinel errors so callers can tell not-found outcomes apart from
// transient database failures
var (
	ErrPartnerNotFound     = errors.New("partner not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrTrialNotFound       = errors.New("trial service not found")
	ErrNoTrialCapacity     = errors.New("partner cannot be assigned another trial")
)

// PartnerRepository owns all reads and writes for partners, their versioned
// applications, trial services and service assignments
type PartnerRepository struct {
	db       *mongo.Client
	trialCfg lifecycle.TrialConfig
}

func NewPartnerRepository(db *mongo.Client) *PartnerRepository {
	return &PartnerRepository{
		db:       db,
		trialCfg: lifecycle.DefaultTrialConfig(),
	}
}

// TrialConfig exposes the configured qualification gate
func (r *PartnerRepository) TrialConfig() lifecycle.TrialConfig {
	return r.trialCfg
}

func (r *PartnerRepository) partners() *mongo.Collection {
	return config.GetCollection(r.db, "partners")
}

func (r *PartnerRepository) applications() *mongo.Collection {
	return config.GetCollection(r.db, "partner_applications")
}

func (r *PartnerRepository) trials() *mongo.Collection {
	return config.GetCollection(r.db, "trial_services")
}

func (r *PartnerRepository) assignments() *mongo.Collection {
	return config.GetCollection(r.db, "service_partner_assignments")
}

// GetPartnerByID fetches a single partner
func (r *PartnerRepository) GetPartnerByID(ctx context.Context, id primitive.ObjectID) (*models.Partner, error) {
	var partner models.Partner
	err := r.partners().FindOne(ctx, bson.M{"_id": id}).Decode(&partner)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("failed to fetch partner: %w", err)
	}
	return &partner, nil
}

// CreatePartner inserts a new partner in the pending status
func (r *PartnerRepository) CreatePartner(ctx context.Context, partner *models.Partner) error {
	now := time.Now()
	partner.ID = primitive.NewObjectID()
	partner.Status = lifecycle.StatusPending
	partner.CreatedAt = now
	partner.UpdatedAt = now

	_, err := r.partners().InsertOne(ctx, partner)
	if err != nil {
		return fmt.Errorf("failed to create partner: %w", err)
	}
	return nil
}

// UpdatePartnerStatus validates the requested lifecycle transition and, when
// it changes anything, persists it with a bounded idempotent retry. The
// returned partner is the authoritative persisted document; the boolean
// reports whether a write happened. A same-status request is a permitted
// no-op: no write, no timestamp change.
func (r *PartnerRepository) UpdatePartnerStatus(ctx context.Context, id primitive.ObjectID, newStatus string) (*models.Partner, bool, error) {
	partner, err := r.GetPartnerByID(ctx, id)
	if err != nil {
		return nil, false, err
	}

	if lifecycle.IsNoOp(partner.Status, newStatus) {
		return partner, false, nil
	}

	if err := lifecycle.ValidateTransition(partner.Status, newStatus); err != nil {
		return nil, false, err
	}

	var updated models.Partner
	err = utils.RetryWrite(ctx, func(ctx context.Context) error {
		// Filter on the old status so a concurrent admin update cannot be
		// silently overwritten; the loser of the race gets not-found and
		// re-reads
		after := options.After
		return r.partners().FindOneAndUpdate(ctx,
			bson.M{"_id": id, "status": partner.Status},
			bson.M{"$set": bson.M{"status": newStatus, "updatedAt": time.Now()}},
			&options.FindOneAndUpdateOptions{ReturnDocument: &after},
		).Decode(&updated)
	})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, false, fmt.Errorf("partner status changed concurrently: %w", ErrPartnerNotFound)
		}
		return nil, false, fmt.Errorf("failed to update partner status: %w", err)
	}

	return &updated, true, nil
}

// GetLatestApplication returns the most recent application for a partner, or
// ErrApplicationNotFound when the partner has never applied
func (r *PartnerRepository) GetLatestApplication(ctx context.Context, partnerID primitive.ObjectID) (*models.PartnerApplication, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var application models.PartnerApplication
	err := r.applications().FindOne(ctx, bson.M{"partnerId": partnerID}, opts).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &application, nil
}

// GetApplicationByID fetches a single application
func (r *PartnerRepository) GetApplicationByID(ctx context.Context, id primitive.ObjectID) (*models.PartnerApplication, error) {
	var application models.PartnerApplication
	err := r.applications().FindOne(ctx, bson.M{"_id": id}).Decode(&application)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &application, nil
}

// CreateApplication inserts the next application version for a partner.
// application_date is set here and never changes afterwards.
func (r *PartnerRepository) CreateApplication(ctx context.Context, partnerID primitive.ObjectID, details map[string]interface{}) (*models.PartnerApplication, error) {
	version := 1
	latest, err := r.GetLatestApplication(ctx, partnerID)
	if err != nil && err != ErrApplicationNotFound {
		return nil, err
	}
	if latest != nil {
		version = latest.Version + 1
	}

	application := models.PartnerApplication{
		ID:              primitive.NewObjectID(),
		PartnerID:       partnerID,
		Version:         version,
		Status:          lifecycle.ApplicationSubmitted,
		ApplicationDate: time.Now(),
		BusinessDetails: details,
	}

	if _, err := r.applications().InsertOne(ctx, &application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return &application, nil
}

// ReviewApplication records an admin decision. review_date is written exactly
// once, the first time the application leaves the submitted/under_review pair.
func (r *PartnerRepository) ReviewApplication(ctx context.Context, id primitive.ObjectID, reviewerID primitive.ObjectID, review models.ApplicationReviewRequest) (*models.PartnerApplication, error) {
	application, err := r.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"status":     review.Status,
		"reviewedBy": reviewerID,
	}
	if review.RejectionReason != "" {
		set["rejectionReason"] = review.RejectionReason
	}
	if review.AdminNotes != "" {
		set["adminNotes"] = review.AdminNotes
	}
	if lifecycle.ReviewDateSetOn(application.Status, review.Status, application.ReviewDate != nil) {
		set["reviewDate"] = time.Now()
	}

	after := options.After
	var updated models.PartnerApplication
	err = r.applications().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to review application: %w", err)
	}
	return &updated, nil
}

// ReconsiderApplication reopens a rejected application to under_review. The
// original application_date and review_date stay untouched.
func (r *PartnerRepository) ReconsiderApplication(ctx context.Context, id primitive.ObjectID) (*models.PartnerApplication, error) {
	application, err := r.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.CanReconsider(application.Status) {
		return nil, fmt.Errorf("application in status %q cannot be reconsidered", application.Status)
	}

	after := options.After
	var updated models.PartnerApplication
	err = r.applications().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": lifecycle.ApplicationRejected},
		bson.M{"$set": bson.M{"status": lifecycle.ApplicationUnderReview}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to reconsider application: %w", err)
	}
	return &updated, nil
}

// GetTrialServices returns all trials for a partner, oldest first. An empty
// slice is a normal outcome, not an error.
func (r *PartnerRepository) GetTrialServices(ctx context.Context, partnerID primitive.ObjectID) ([]models.TrialService, error) {
	opts := options.Find().SetSort(bson.D{{Key: "assignedDate", Value: 1}})
	cursor, err := r.trials().Find(ctx, bson.M{"partnerId": partnerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trial services: %w", err)
	}
	defer cursor.Close(ctx)

	trials := []models.TrialService{}
	if err := cursor.All(ctx, &trials); err != nil {
		return nil, fmt.Errorf("failed to decode trial services: %w", err)
	}
	return trials, nil
}

// SummarizeTrials computes the qualification aggregate for a trial list
func (r *PartnerRepository) SummarizeTrials(trials []models.TrialService) lifecycle.TrialSummary {
	statuses := make([]string, len(trials))
	for i, trial := range trials {
		statuses[i] = trial.Status
	}
	return lifecycle.SummarizeTrials(statuses, r.trialCfg)
}

// AssignTrialService creates a new trial for the partner after checking the
// assignment gate, persisting with a bounded idempotent retry
func (r *PartnerRepository) AssignTrialService(ctx context.Context, partnerID, serviceID primitive.ObjectID) (*models.TrialService, error) {
	if _, err := r.GetPartnerByID(ctx, partnerID); err != nil {
		return nil, err
	}

	trials, err := r.GetTrialServices(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if summary := r.SummarizeTrials(trials); !summary.CanAssignMore {
		return nil, ErrNoTrialCapacity
	}

	trial := models.TrialService{
		ID:           primitive.NewObjectID(),
		PartnerID:    partnerID,
		ServiceID:    serviceID,
		Status:       lifecycle.TrialAssigned,
		AssignedDate: time.Now(),
	}

	err = utils.RetryWrite(ctx, func(ctx context.Context) error {
		// Upsert on the pre-generated _id keeps the retry idempotent: a
		// replayed attempt after an ambiguous failure cannot create a
		// second trial
		_, err := r.trials().UpdateOne(ctx,
			bson.M{"_id": trial.ID},
			bson.M{"$setOnInsert": trial},
			options.Update().SetUpsert(true),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign trial service: %w", err)
	}
	return &trial, nil
}

// StartTrial moves an assigned trial to in_progress
func (r *PartnerRepository) StartTrial(ctx context.Context, id primitive.ObjectID) (*models.TrialService, error) {
	after := options.After
	var updated models.TrialService
	err := r.trials().FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": lifecycle.TrialAssigned},
		bson.M{"$set": bson.M{"status": lifecycle.TrialInProgress}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTrialNotFound
		}
		return nil, fmt.Errorf("failed to start trial: %w", err)
	}
	return &updated, nil
}

// RecordTrialOutcome closes out a trial as completed or failed. Ratings and
// on-time delivery are only stored on completion.
func (r *PartnerRepository) RecordTrialOutcome(ctx context.Context, id primitive.ObjectID, status string, outcome *models.TrialOutcomeRequest, feedback string) (*models.TrialService, error) {
	now := time.Now()
	set := bson.M{
		"status":         status,
		"completionDate": now,
	}
	if status == lifecycle.TrialCompleted && outcome != nil {
		set["qualityRating"] = outcome.QualityRating
		set["responseRating"] = outcome.ResponseRating
		set["onTimeDelivery"] = outcome.OnTimeDelivery
		if outcome.CustomerFeedback != "" {
			set["customerFeedback"] = outcome.CustomerFeedback
		}
	}
	if status == lifecycle.TrialFailed && feedback != "" {
		set["customerFeedback"] = feedback
	}

	after := options.After
	var updated models.TrialService
	err := r.trials().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrTrialNotFound
		}
		return nil, fmt.Errorf("failed to record trial outcome: %w", err)
	}
	return &updated, nil
}

// GetAssignments returns a partner's service assignments
func (r *PartnerRepository) GetAssignments(ctx context.Context, partnerID primitive.ObjectID) ([]models.ServicePartnerAssignment, error) {
	cursor, err := r.assignments().Find(ctx, bson.M{"partnerId": partnerID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assignments: %w", err)
	}
	defer cursor.Close(ctx)

	assignments := []models.ServicePartnerAssignment{}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("failed to decode assignments: %w", err)
	}
	return assignments, nil
}

// AddServiceAssignment links a partner to a service, snapshotting the
// commission rate from the partner type at assignment time
func (r *PartnerRepository) AddServiceAssignment(ctx context.Context, partner *models.Partner, serviceID primitive.ObjectID) (*models.ServicePartnerAssignment, error) {
	assignment := models.ServicePartnerAssignment{
		ID:             primitive.NewObjectID(),
		PartnerID:      partner.ID,
		ServiceID:      serviceID,
		Status:         "assigned",
		CommissionRate: lifecycle.CommissionRate(partner.PartnerType),
		AssignedDate:   time.Now(),
	}

	if _, err := r.assignments().InsertOne(ctx, &assignment); err != nil {
		return nil, fmt.Errorf("failed to add service assignment: %w", err)
	}
	return &assignment, nil
}
