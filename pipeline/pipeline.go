// Package pipeline sequences the validation checks for a submitted report
// and records every outcome in the ledger. Check order is fixed: category,
// abuse, text duplicate, location duplicate, image/category match, image
// duplicate, urgency. Non-essential checks fail open: a technical failure
// inside them counts as a pass so that legitimate reports are not blocked by
// infrastructure problems.
package pipeline

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/apex/log"

	"report-validation-pipeline/abuse"
	"report-validation-pipeline/classifier"
	"report-validation-pipeline/config"
	"report-validation-pipeline/dedup"
	"report-validation-pipeline/imagematch"
	"report-validation-pipeline/ledger"
	"report-validation-pipeline/metrics"
	"report-validation-pipeline/models"
	"report-validation-pipeline/phash"
	"report-validation-pipeline/urgency"
	"report-validation-pipeline/vocab"
)

// Reject reasons returned to the caller.
const (
	ReasonDescriptionRequired = "Description is required"
	ReasonCategoryUnknown     = "Unable to determine issue category. Please provide more details."
	ReasonAbusiveLanguage     = "Abusive language detected"
	ReasonTextDuplicate       = "You have already submitted this report."
	ReasonLocationDuplicate   = "A similar issue has already been reported at this location."
	ReasonImageMismatch       = "Image does not match the issue description. Please provide an image related to the reported category."
	ReasonImageDuplicate      = "Duplicate image detected. This image has already been used in another report."
	ReasonAccepted            = "Report accepted successfully"
	ReasonInternalError       = "Internal processing error"
)

// Labeler is the external image-labeling capability. A failure is treated as
// an empty label.
type Labeler interface {
	Classify(ctx context.Context, imageData []byte) (string, error)
}

// Publisher delivers decision events to interested consumers, best-effort.
type Publisher interface {
	Publish(message interface{}) error
}

// CheckOutcome is the result of one duplicate-style check.
type CheckOutcome int

const (
	// Pass means the check found nothing blocking.
	Pass CheckOutcome = iota
	// Hit means the check positively identified a duplicate.
	Hit
	// Inconclusive means the check failed technically and could not decide.
	Inconclusive
)

// CheckResult pairs an outcome with the error that made it inconclusive.
type CheckResult struct {
	Outcome CheckOutcome
	Err     error
}

func result(hit bool, err error) CheckResult {
	if err != nil {
		return CheckResult{Outcome: Inconclusive, Err: err}
	}
	if hit {
		return CheckResult{Outcome: Hit}
	}
	return CheckResult{Outcome: Pass}
}

// blocked applies the fail-open policy: Inconclusive is logged, counted and
// treated as Pass. This is the only place that interpretation happens.
func blocked(check string, r CheckResult) bool {
	if r.Outcome == Inconclusive {
		log.Errorf("%s check failed, treating as passed: %v", check, r.Err)
		metrics.InconclusiveChecksTotal.WithLabelValues(check).Inc()
		return false
	}
	return r.Outcome == Hit
}

// Pipeline validates submissions and appends every decision to the ledger.
type Pipeline struct {
	cfg        *config.Config
	ledger     *ledger.Ledger
	classifier *classifier.Classifier
	abuse      *abuse.Filter
	detector   *dedup.Detector
	labeler    Labeler
	publisher  Publisher
}

// New wires a pipeline. labeler and publisher may be nil; the corresponding
// capabilities are then skipped permissively.
func New(cfg *config.Config, l *ledger.Ledger, cls *classifier.Classifier, filter *abuse.Filter, detector *dedup.Detector, labeler Labeler, publisher Publisher) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		ledger:     l,
		classifier: cls,
		abuse:      filter,
		detector:   detector,
		labeler:    labeler,
		publisher:  publisher,
	}
}

// decision is the terminal state of one submission before it is recorded.
type decision struct {
	accept     bool
	status     string
	category   string
	confidence float64
	urgency    string
	reason     string
	imageHash  string
	check      string
}

// Process runs the full check sequence for one report and returns the
// decision. Every terminal path, including a panic escaping a check, appends
// exactly one ledger entry.
func (p *Pipeline) Process(ctx context.Context, report *models.Report) (resp *models.SubmitResponse) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Pipeline failure for report %s: %v", report.ReportID, r)
			resp = p.finalize(report, &decision{
				status:     models.StatusError,
				category:   vocab.CategoryOther,
				confidence: 0.0,
				reason:     ReasonInternalError,
			})
		}
		metrics.DecisionsTotal.WithLabelValues(resp.Status).Inc()
		metrics.ProcessingDurationSeconds.WithLabelValues(resp.Status).Observe(time.Since(start).Seconds())
	}()

	return p.finalize(report, p.run(ctx, report))
}

func (p *Pipeline) run(ctx context.Context, report *models.Report) *decision {
	description := strings.TrimSpace(report.Description)
	if description == "" {
		return rejected("description", vocab.CategoryOther, 0.0, ReasonDescriptionRequired)
	}

	category, confidence := p.classifier.Classify(description)
	if category == vocab.CategoryOther || confidence < p.cfg.CategoryConfidenceThreshold {
		return rejected("category", category, confidence, ReasonCategoryUnknown)
	}

	if p.abuse.IsAbusive(ctx, description) {
		return rejected("abuse", category, confidence, ReasonAbusiveLanguage)
	}

	userID := dedup.NormalizeUser(report.UserID)

	if blocked("text_duplicate", result(p.detector.IsTextDuplicate(userID, description, category))) {
		return rejected("text_duplicate", category, confidence, ReasonTextDuplicate)
	}

	if report.HasLocation() {
		if blocked("location_duplicate", result(p.detector.IsLocationDuplicate(*report.Latitude, *report.Longitude, category))) {
			return rejected("location_duplicate", category, confidence, ReasonLocationDuplicate)
		}
	}

	var imageHash string
	if len(report.Image) > 0 {
		// Image/category consistency comes first: a non-matching image is
		// rejected before any duplicate testing.
		if !p.imageMatches(ctx, report.Image, category) {
			return rejected("image_match", category, confidence, ReasonImageMismatch)
		}

		var err error
		imageHash, err = phash.FromBytes(report.Image)
		if err != nil {
			log.Errorf("Failed to hash image for report %s, skipping duplicate check: %v", report.ReportID, err)
			metrics.InconclusiveChecksTotal.WithLabelValues("image_hash").Inc()
		} else if blocked("image_duplicate", result(p.detector.IsImageDuplicate(imageHash))) {
			d := rejected("image_duplicate", category, confidence, ReasonImageDuplicate)
			d.imageHash = imageHash
			return d
		}
	}

	return &decision{
		accept:     true,
		status:     models.StatusAccepted,
		category:   category,
		confidence: confidence,
		urgency:    urgency.Tag(description, category),
		reason:     ReasonAccepted,
		imageHash:  imageHash,
	}
}

// imageMatches obtains a label from the external capability and tests it
// against the category. Labeler absence or failure yields an empty label,
// which the matcher treats permissively.
func (p *Pipeline) imageMatches(ctx context.Context, imageData []byte, category string) bool {
	label := ""
	if p.labeler != nil {
		var err error
		label, err = p.labeler.Classify(ctx, imageData)
		if err != nil {
			log.Warnf("Image labeling failed, allowing through: %v", err)
			metrics.InconclusiveChecksTotal.WithLabelValues("image_label").Inc()
			label = ""
		}
	}
	return imagematch.Matches(label, category)
}

// finalize appends the ledger entry for the decision, publishes it
// best-effort and builds the response. An append failure is logged but never
// prevents a response.
func (p *Pipeline) finalize(report *models.Report, d *decision) *models.SubmitResponse {
	entry := &models.LedgerEntry{
		ReportID:    report.ReportID,
		UserID:      dedup.NormalizeUser(report.UserID),
		Description: strings.TrimSpace(report.Description),
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Category:    d.category,
		Confidence:  round2(d.confidence),
		Accepted:    d.accept,
		Status:      d.status,
		Reason:      d.reason,
		ImageHash:   d.imageHash,
		Urgency:     d.urgency,
		Timestamp:   time.Now().UTC(),
	}

	if err := p.ledger.Append(entry); err != nil {
		log.Errorf("Failed to append ledger entry for report %s: %v", report.ReportID, err)
		metrics.LedgerAppendErrorsTotal.Inc()
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(entry); err != nil {
			log.Errorf("Failed to publish decision for report %s: %v", report.ReportID, err)
			metrics.PublishErrorsTotal.Inc()
		}
	}

	if d.check != "" {
		metrics.RejectionsTotal.WithLabelValues(d.check).Inc()
	}

	return &models.SubmitResponse{
		ReportID:   report.ReportID,
		Accept:     d.accept,
		Status:     d.status,
		Category:   d.category,
		Confidence: round2(d.confidence),
		Urgency:    d.urgency,
		Reason:     d.reason,
	}
}

func rejected(check, category string, confidence float64, reason string) *decision {
	return &decision{
		status:     models.StatusRejected,
		category:   category,
		confidence: confidence,
		reason:     reason,
		check:      check,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
