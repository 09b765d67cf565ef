package algo

import (
	"time"

	"github.com/huangsam/retention/schema"
)

// FallbackThreshold is the score above which an employee must get at least one action.
const FallbackThreshold = 0.7

// actionTemplate is an intervention before it is bound to an employee.
type actionTemplate struct {
	Action      string
	Description string
	Priority    schema.Priority
	Timeline    string
	Owner       string
	Type        schema.InterventionType
}

// interventionRules maps factors to actions, in evaluation order.
var interventionRules = []struct {
	factor  schema.RiskFactor
	actions []actionTemplate
}{
	{
		factor: schema.LowEngagement,
		actions: []actionTemplate{{
			Action:      "Schedule 1:1 Check-in",
			Description: "Have a direct conversation about engagement and any concerns",
			Priority:    schema.HighPriority,
			Timeline:    "within 3 days",
			Owner:       "Direct Manager",
			Type:        schema.EngagementIntervention,
		}},
	},
	{
		factor: schema.PerformanceIssues,
		actions: []actionTemplate{{
			Action:      "Performance Support Plan",
			Description: "Identify skill gaps and provide training or mentoring",
			Priority:    schema.MediumPriority,
			Timeline:    "within 1 week",
			Owner:       "Manager + HR",
			Type:        schema.PerformanceIntervention,
		}},
	},
	{
		factor: schema.HighPerformerFlight,
		actions: []actionTemplate{
			{
				Action:      "Career Development Discussion",
				Description: "Explore growth paths, stretch assignments and long-term goals",
				Priority:    schema.HighPriority,
				Timeline:    "immediate",
				Owner:       "Direct Manager",
				Type:        schema.CareerIntervention,
			},
			{
				Action:      "Compensation Review",
				Description: "Benchmark pay against market and adjust if needed",
				Priority:    schema.HighPriority,
				Timeline:    "within 1 week",
				Owner:       "HR + Finance",
				Type:        schema.CompensationIntervention,
			},
		},
	},
	{
		factor: schema.PromotionOverdue,
		actions: []actionTemplate{{
			Action:      "Promotion Review",
			Description: "Assess readiness for promotion or a clear path toward it",
			Priority:    schema.HighPriority,
			Timeline:    "within 2 weeks",
			Owner:       "Manager + HR",
			Type:        schema.PromotionIntervention,
		}},
	},
}

var retentionDiscussion = actionTemplate{
	Action:      "Retention Discussion",
	Description: "Discuss career goals, compensation, and growth opportunities",
	Priority:    schema.CriticalPriority,
	Timeline:    "immediate",
	Owner:       "Manager + HR",
	Type:        schema.RetentionIntervention,
}

// GenerateInterventions maps an assessment to recommended actions in fixed rule order.
// All actions start as pending. When the score exceeds FallbackThreshold and no
// rule fired, a single retention discussion is emitted.
func GenerateInterventions(employeeID string, a schema.RiskAssessment, now time.Time) []schema.InterventionRecord {
	var templates []actionTemplate
	for _, rule := range interventionRules {
		if a.HasFactor(rule.factor) {
			templates = append(templates, rule.actions...)
		}
	}
	if len(templates) == 0 && a.RiskScore > FallbackThreshold {
		templates = append(templates, retentionDiscussion)
	}

	out := make([]schema.InterventionRecord, 0, len(templates))
	for i, t := range templates {
		out = append(out, schema.InterventionRecord{
			EmployeeID:  employeeID,
			Seq:         i,
			Action:      t.Action,
			Description: t.Description,
			Priority:    t.Priority,
			Timeline:    t.Timeline,
			Owner:       t.Owner,
			Type:        t.Type,
			Status:      schema.PendingStatus,
			UpdatedAt:   now,
		})
	}
	return out
}
