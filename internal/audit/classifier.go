package audit

import (
	"regexp"
	"strings"

	"github.com/pawpoint/vetclinic/internal/models"
)

// PathRule maps a cleaned URL path prefix to a dot-qualified resource
// type. Rules are evaluated in table order and the longest matching
// prefix wins, so the table must list specific paths before their
// parents. Table order is configuration, not alphabetics.
type PathRule struct {
	Prefix   string
	Resource string
}

// SensitivityRule raises the tier of any path matching Pattern. First
// match in table order wins.
type SensitivityRule struct {
	Pattern *regexp.Regexp
	Tier    models.Sensitivity
}

// Classifier decides, for a URL path, whether it is audited at all and
// under which resource type and sensitivity tier. It is a pure
// function of its tables: same input, same output.
type Classifier struct {
	sections    []string
	rules       []PathRule
	sensitivity []SensitivityRule
}

var (
	trailingID = regexp.MustCompile(`/(\d+|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})/?$`)
)

func NewClassifier(sections []string, rules []PathRule, sensitivity []SensitivityRule) *Classifier {
	return &Classifier{
		sections:    sections,
		rules:       rules,
		sensitivity: sensitivity,
	}
}

// Classify returns the resource type and sensitivity for a path, or
// ok=false when the path belongs to no audited section.
func (c *Classifier) Classify(path string) (resourceType string, tier models.Sensitivity, ok bool) {
	if !c.audited(path) {
		return "", "", false
	}

	cleaned := strings.TrimRight(trailingID.ReplaceAllString(path, ""), "/")

	best := ""
	resourceType = ""
	for _, r := range c.rules {
		if cleaned == r.Prefix || strings.HasPrefix(cleaned, r.Prefix+"/") {
			if len(r.Prefix) > len(best) {
				best = r.Prefix
				resourceType = r.Resource
			}
		}
	}
	if resourceType == "" {
		// Audited section without a mapping: keep the trail anyway,
		// with the cleaned path (leading slash included) as the suffix.
		resourceType = "unknown." + cleaned
	}

	tier = models.SensitivityNormal
	for _, s := range c.sensitivity {
		if s.Pattern.MatchString(path) {
			tier = s.Tier
			break
		}
	}

	return resourceType, tier, true
}

// ResourceID extracts a trailing numeric or UUID path segment, empty
// when the path addresses a collection.
func (c *Classifier) ResourceID(path string) string {
	m := trailingID.FindStringSubmatch(path)
	if m == nil {
		return ""
	}
	return m[1]
}

func (c *Classifier) audited(path string) bool {
	for _, prefix := range c.sections {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// DefaultClassifier carries the reference deployment's tables: six
// staff sections, their resource-type refinements, and the paths that
// always count as high sensitivity.
func DefaultClassifier() *Classifier {
	sections := []string{
		"/inventory/",
		"/practice/",
		"/referrals/",
		"/pharmacy/",
		"/crm/",
		"/billing/",
	}

	rules := []PathRule{
		{"/inventory/stock", "inventory.stock"},
		{"/inventory/batches", "inventory.batch"},
		{"/inventory/movements", "inventory.movement"},
		{"/inventory/suppliers", "inventory.supplier"},
		{"/inventory/purchase-orders", "inventory.purchase_order"},
		{"/inventory/alerts", "inventory.alert"},
		{"/inventory/expiring", "inventory.expiring"},
		{"/inventory", "inventory.dashboard"},
		{"/practice/staff", "practice.staff"},
		{"/practice/schedule", "practice.schedule"},
		{"/practice/shifts", "practice.shift"},
		{"/practice/time", "practice.time_tracking"},
		{"/practice/tasks", "practice.task"},
		{"/practice/settings", "practice.settings"},
		{"/practice", "practice.dashboard"},
		{"/referrals/specialists", "referrals.specialist"},
		{"/referrals/outbound", "referrals.referral"},
		{"/referrals/visiting", "referrals.visiting"},
		{"/referrals", "referrals.dashboard"},
		{"/pharmacy/prescriptions", "pharmacy.prescription"},
		{"/pharmacy", "pharmacy.dashboard"},
		{"/crm/customers", "crm.customer"},
		{"/crm", "crm.dashboard"},
		{"/billing/invoices", "billing.invoice"},
		{"/billing", "billing.dashboard"},
	}

	sensitivity := []SensitivityRule{
		{regexp.MustCompile(`^/referrals/outbound/`), models.SensitivityHigh},
		{regexp.MustCompile(`^/pharmacy/prescriptions/`), models.SensitivityHigh},
		{regexp.MustCompile(`^/practice/settings/`), models.SensitivityHigh},
		{regexp.MustCompile(`^/billing/invoices/`), models.SensitivityHigh},
		{regexp.MustCompile(`^/crm/customers/\d+`), models.SensitivityHigh},
	}

	return NewClassifier(sections, rules, sensitivity)
}
