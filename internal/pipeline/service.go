package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"certifi/internal/canonical"
	"certifi/internal/claim"
	"certifi/internal/classify"
	"certifi/internal/decision"
	"certifi/internal/extract"
	"certifi/internal/platform/metrics"
	"certifi/internal/policy"
	"certifi/internal/role"
	"certifi/pkg/requestcontext"
)

// Options tune one processing run.
type Options struct {
	// UseClaimBased requests claim-based certification for semantic
	// families instead of the structural policy.
	UseClaimBased bool

	// Recognizer is the optional second-pass entity capability.
	Recognizer claim.EntityRecognizer

	// Family skips classification when the caller already knows the
	// document family.
	Family classify.Family
}

// Service runs the full analysis chain. Rule tables are compiled once
// at construction; ProcessText is safe for concurrent use.
type Service struct {
	classifier *classify.Classifier
	roles      *role.Engine
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewService(logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		classifier: classify.New(),
		roles:      role.NewEngine(),
		logger:     logger,
		metrics:    m,
	}
}

// ProcessText runs the pipeline on one document. Total: every input,
// including empty text, yields a complete record; failures surface as
// anomalies and a not-ready verdict.
func (s *Service) ProcessText(ctx context.Context, text string, opts Options) CertificationRecord {
	started := time.Now()

	rec := CertificationRecord{
		ID:          uuid.NewString(),
		ProcessedAt: requestcontext.Now(ctx),
	}

	cls := s.classifier.Classify(text)
	if opts.Family != "" && opts.Family != classify.FamilyUnknown {
		if cls.Family != opts.Family {
			cls.Family = opts.Family
			cls.Subtype = classify.SubtypeUnknown
		}
		if cls.Confidence < 0.70 {
			cls.Confidence = 0.70
		}
	}
	rec.Family = cls.Family
	rec.Subtype = cls.Subtype
	rec.ClassificationConfidence = cls.Confidence
	rec.ClassificationSource = cls.Source

	if cls.Family == classify.FamilyUnknown {
		s.finishUnknown(ctx, &rec, text, started)
		return rec
	}

	// Claims are evaluated before policy resolution: strong claim
	// evidence boosts weak classification and can override the family.
	eval := claim.Evaluate(text)
	rec.ClaimEvaluation = eval
	rec.AdaptiveBoost = decision.AdaptiveBoost(eval.Score)

	classConf := min(classify.MaxConfidence, cls.Confidence+rec.AdaptiveBoost)
	if eval.Relationship && eval.Score >= 0.70 {
		if cls.Family != classify.FamilyContract {
			cls.Family = classify.FamilyContract
			rec.Family = cls.Family
			rec.FamilyOverridden = true
		}
		if classConf < 0.70 {
			classConf = 0.70
		}
	}
	rec.ClassificationConfidence = classConf

	claimBased := opts.UseClaimBased && eval.Relationship
	rec.Policy = policy.Resolve(cls.Family, classConf, claimBased)

	rec.Role = s.roles.Infer(text, cls.Family)
	rec.Claim = claim.NewExtractor(opts.Recognizer, s.logger).Extract(text, rec.Role.Role, cls.Family)

	if rec.Policy.RequiresExtraction && extract.RequiredFields(cls.Family) != nil {
		doc := extract.Extract(text, cls.Family)
		rec.Document = &doc
	}

	in := decision.Input{
		Policy:                   rec.Policy,
		ClassificationConfidence: classConf,
		Document:                 rec.Document,
	}
	if rec.Policy.ID == policy.ClaimBased {
		in.Claims = &eval
	}
	rec.Decision = decision.Decide(in)

	s.fingerprint(&rec, text)
	rec.Holder = holderFor(rec.Claim, rec.Role.Role, cls.Family)
	rec.Anomalies = detectAnomalies(len(strings.TrimSpace(text)), rec)
	rec.ComplianceScore = complianceScore(rec)

	s.observe(ctx, rec, started)
	return rec
}

// finishUnknown completes the record for unclassifiable input: a
// non-certifiable verdict with the anomalies explaining why.
func (s *Service) finishUnknown(ctx context.Context, rec *CertificationRecord, text string, started time.Time) {
	rec.Policy = policy.Resolve(classify.FamilyUnknown, rec.ClassificationConfidence, false)
	rec.Role = role.Unresolved()
	rec.Decision = decision.Decide(decision.Input{
		Policy:                   rec.Policy,
		ClassificationConfidence: rec.ClassificationConfidence,
	})
	s.fingerprint(rec, text)
	rec.Anomalies = detectAnomalies(len(strings.TrimSpace(text)), *rec)
	rec.ComplianceScore = complianceScore(*rec)
	s.observe(ctx, *rec, started)
}

// fingerprint computes the record hashes. Ready records hash their
// evidence (structured fields, else the raw text) combined with the
// claim hash; not-ready records hash the decision-relevant subset so
// every input still has a deterministic fingerprint.
func (s *Service) fingerprint(rec *CertificationRecord, text string) {
	if rec.hasClaim() {
		rec.ClaimHash = canonical.HashString(rec.Claim.Statement())
	}

	if !rec.Decision.Ready {
		rec.CanonicalHash = canonical.Hash(map[string]any{
			"document_family":      string(rec.Family),
			"certification_policy": string(rec.Policy.ID),
			"verdict":              "not_ready",
		})
		return
	}

	var dataHash string
	if rec.Document != nil {
		dataHash = canonical.Hash(documentSubset(rec.Document))
	} else {
		dataHash = canonical.HashString(text)
	}
	if rec.ClaimHash != "" {
		rec.CanonicalHash = canonical.Combine(dataHash, rec.ClaimHash)
	} else {
		rec.CanonicalHash = dataHash
	}
}

func documentSubset(doc *extract.Document) map[string]any {
	fields := map[string]any{}
	for _, f := range doc.Fields {
		fields[f.Name] = f.Value
	}
	return map[string]any{
		"document_family": string(doc.Family),
		"trusted_source":  string(doc.TrustedSource),
		"fields":          fields,
	}
}

func (s *Service) observe(ctx context.Context, rec CertificationRecord, started time.Time) {
	verdict := "not_ready"
	if rec.Decision.Ready {
		verdict = "ready"
	}
	if s.metrics != nil {
		s.metrics.ObserveProcessed(string(rec.Family), verdict, time.Since(started))
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "document processed",
			"request_id", requestcontext.RequestID(ctx),
			"record_id", rec.ID,
			"family", rec.Family,
			"subtype", rec.Subtype,
			"policy", rec.Policy.ID,
			"verdict", verdict,
			"risk", rec.Decision.Risk,
			"confidence", rec.Decision.FinalConfidence,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	}
}
