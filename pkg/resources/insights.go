package resources

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// appInsightsNamePattern excludes the characters the Components API
// rejects in resource names.
var appInsightsNamePattern = regexp.MustCompile(`^[^%&\\?/]{1,260}$`)

// allowedRetentionDays are the retention periods the Application
// Insights service supports.
var allowedRetentionDays = map[int]bool{
	30: true, 60: true, 90: true, 120: true, 180: true,
	270: true, 365: true, 550: true, 730: true,
}

// ApplicationInsightsProps configures a Microsoft.Insights/components resource.
type ApplicationInsightsProps struct {
	// Name is the component name.
	Name string `yaml:"name" validate:"required,min=1,max=260"`
	// Location is the Azure region.
	Location string `yaml:"location" validate:"required,location"`
	// ApplicationType is web or other.
	ApplicationType string `yaml:"applicationType" validate:"required"`
	// RetentionInDays is the data retention period; nil keeps the
	// service default of 90 days.
	RetentionInDays *int `yaml:"retentionInDays,omitempty"`
	// Tags are Azure resource tags.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// ResourceType returns the ARM resource type.
func (p *ApplicationInsightsProps) ResourceType() string {
	return "Microsoft.Insights/components"
}

// ValidateProps performs hard validation of the component.
func (p *ApplicationInsightsProps) ValidateProps() error {
	if err := validate.Struct(p); err != nil {
		return WrapFieldErrors(err)
	}

	if !appInsightsNamePattern.MatchString(p.Name) {
		return errcatalog.New("SCHEMA002", map[string]string{
			"name":         p.Name,
			"resourceType": p.ResourceType(),
			"reason":       "1-260 characters, none of % & \\ ? /",
		})
	}

	if p.ApplicationType != "web" && p.ApplicationType != "other" {
		return errcatalog.New("TYPE002", map[string]string{
			"value": p.ApplicationType,
		})
	}

	if p.RetentionInDays != nil && !allowedRetentionDays[*p.RetentionInDays] {
		return errcatalog.New("TYPE003", map[string]string{
			"value":   strconv.Itoa(*p.RetentionInDays),
			"allowed": retentionList(),
		})
	}

	return nil
}

// retentionList renders the allowed retention periods for messages.
func retentionList() string {
	days := make([]int, 0, len(allowedRetentionDays))
	for d := range allowedRetentionDays {
		days = append(days, d)
	}
	sort.Ints(days)
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ", ")
}

// ValidateARMStructure performs soft structural validation.
func (p *ApplicationInsightsProps) ValidateARMStructure() validation.Result {
	builder := validation.NewBuilder()

	builder.Merge(validation.ValidateResourceName(p.Name, "Application Insights component", 1, 260, appInsightsNamePattern))
	builder.Merge(validation.ValidateLocation(p.Location, true))
	builder.Merge(validation.ValidateTags(p.Tags, validation.DefaultMaxTags))

	if p.RetentionInDays != nil && *p.RetentionInDays < 90 {
		builder.AddInfo(
			fmt.Sprintf("retention of %d days is below the 90 day default", *p.RetentionInDays),
			validation.WithPropertyPath("retentionInDays"),
		)
	}

	return builder.Build()
}
