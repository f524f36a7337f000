package resources

import (
	"fmt"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// MaxGroupShortNameLength is the SMS/push display-name limit.
const MaxGroupShortNameLength = 12

// EmailReceiverProps configures one email receiver of an action group.
type EmailReceiverProps struct {
	// Name is the receiver name, unique within the action group.
	Name string `yaml:"name" validate:"required,min=1"`
	// EmailAddress is the notification target.
	EmailAddress string `yaml:"emailAddress" validate:"required,email"`
}

// ActionGroupProps configures a Microsoft.Insights/actionGroups resource.
type ActionGroupProps struct {
	// Name is the action group name.
	Name string `yaml:"name" validate:"required,min=1,max=260"`
	// GroupShortName appears in SMS and push notifications.
	GroupShortName string `yaml:"groupShortName" validate:"required,min=1"`
	// Enabled controls whether notifications fire.
	Enabled bool `yaml:"enabled"`
	// EmailReceivers are the email notification targets.
	EmailReceivers []EmailReceiverProps `yaml:"emailReceivers,omitempty" validate:"dive"`
	// Tags are Azure resource tags.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// ResourceType returns the ARM resource type.
func (p *ActionGroupProps) ResourceType() string {
	return "Microsoft.Insights/actionGroups"
}

// ValidateProps performs hard validation of the action group.
func (p *ActionGroupProps) ValidateProps() error {
	if err := validate.Struct(p); err != nil {
		return WrapFieldErrors(err)
	}

	if len(p.GroupShortName) > MaxGroupShortNameLength {
		return errcatalog.New("SCHEMA003", map[string]string{
			"property":  "groupShortName",
			"maxLength": fmt.Sprintf("%d", MaxGroupShortNameLength),
		})
	}

	seen := make(map[string]bool, len(p.EmailReceivers))
	for _, receiver := range p.EmailReceivers {
		if seen[receiver.Name] {
			return errcatalog.New("SCHEMA002", map[string]string{
				"name":         receiver.Name,
				"resourceType": "email receiver",
				"reason":       "receiver names must be unique within the action group",
			})
		}
		seen[receiver.Name] = true
	}

	return nil
}

// ValidateARMStructure performs soft structural validation.
func (p *ActionGroupProps) ValidateARMStructure() validation.Result {
	builder := validation.NewBuilder()

	builder.Merge(validation.ValidateResourceName(p.Name, "action group", 1, 260, nil))
	builder.Merge(validation.ValidateTags(p.Tags, validation.DefaultMaxTags))

	if !p.Enabled {
		builder.AddWarning(
			"action group is disabled and will not deliver notifications",
			validation.WithPropertyPath("enabled"),
		)
	}
	if len(p.EmailReceivers) == 0 {
		builder.AddInfo(
			"action group has no email receivers",
			validation.WithPropertyPath("emailReceivers"),
		)
	}

	return builder.Build()
}
