package resources

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// SQL Server administrator password bounds.
const (
	MinSQLPasswordLength = 8
	MaxSQLPasswordLength = 128
)

// sqlServerNamePattern enforces lowercase letters, digits, and hyphens
// with alphanumeric first and last characters, 1-63 characters total.
var sqlServerNamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

// reservedSQLLogins are account names SQL Server refuses as the server
// administrator login.
var reservedSQLLogins = map[string]bool{
	"admin":         true,
	"administrator": true,
	"sa":            true,
	"root":          true,
	"dbmanager":     true,
	"loginmanager":  true,
}

// SqlServerProps configures a Microsoft.Sql/servers resource.
type SqlServerProps struct {
	// Name is the server name, globally unique within Azure SQL.
	Name string `yaml:"name" validate:"required"`
	// Location is the Azure region.
	Location string `yaml:"location" validate:"required,location"`
	// AdministratorLogin is the server administrator account name.
	AdministratorLogin string `yaml:"administratorLogin" validate:"required,min=1,max=128"`
	// AdministratorLoginPassword is the administrator password.
	AdministratorLoginPassword string `yaml:"administratorLoginPassword" validate:"required"`
	// Version is the server version.
	Version string `yaml:"version,omitempty" validate:"omitempty,oneof=2.0 12.0"`
	// MinimalTLSVersion is the minimum inbound TLS version.
	MinimalTLSVersion string `yaml:"minimalTlsVersion,omitempty" validate:"omitempty,oneof=1.0 1.1 1.2"`
	// PublicNetworkAccess is Enabled or Disabled.
	PublicNetworkAccess string `yaml:"publicNetworkAccess,omitempty" validate:"omitempty,oneof=Enabled Disabled"`
	// Tags are Azure resource tags.
	Tags map[string]string `yaml:"tags,omitempty"`
}

// ResourceType returns the ARM resource type.
func (p *SqlServerProps) ResourceType() string {
	return "Microsoft.Sql/servers"
}

// ValidateProps performs hard validation of the SQL server.
func (p *SqlServerProps) ValidateProps() error {
	if err := validate.Struct(p); err != nil {
		return WrapFieldErrors(err)
	}

	if !sqlServerNamePattern.MatchString(p.Name) {
		return errcatalog.New("SCHEMA002", map[string]string{
			"name":         p.Name,
			"resourceType": p.ResourceType(),
			"reason":       "1-63 lowercase letters, digits, and hyphens; must start and end with a letter or digit",
		})
	}

	if reservedSQLLogins[strings.ToLower(p.AdministratorLogin)] {
		return errcatalog.New("SEC004", map[string]string{
			"login": p.AdministratorLogin,
		})
	}

	if reason := passwordComplexityViolation(p.AdministratorLoginPassword); reason != "" {
		return errcatalog.New("SEC005", map[string]string{
			"reason": reason,
		})
	}

	return nil
}

// passwordComplexityViolation returns an empty string for a compliant
// password, otherwise the rule it violates. SQL Server requires 8-128
// characters from at least three of the four character classes.
func passwordComplexityViolation(password string) string {
	if len(password) < MinSQLPasswordLength {
		return fmt.Sprintf("shorter than %d characters", MinSQLPasswordLength)
	}
	if len(password) > MaxSQLPasswordLength {
		return fmt.Sprintf("longer than %d characters", MaxSQLPasswordLength)
	}

	classes := 0
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	for _, present := range []bool{hasUpper, hasLower, hasDigit, hasSymbol} {
		if present {
			classes++
		}
	}
	if classes < 3 {
		return "must contain characters from at least three of: uppercase, lowercase, digits, symbols"
	}
	return ""
}

// ValidateARMStructure performs soft structural validation.
func (p *SqlServerProps) ValidateARMStructure() validation.Result {
	builder := validation.NewBuilder()

	builder.Merge(validation.ValidateResourceName(p.Name, "SQL server", 1, 63, sqlServerNamePattern))
	builder.Merge(validation.ValidateLocation(p.Location, true))
	builder.Merge(validation.ValidateTags(p.Tags, validation.DefaultMaxTags))

	if p.MinimalTLSVersion != "" && p.MinimalTLSVersion != "1.2" {
		builder.AddWarning(
			fmt.Sprintf("minimal TLS version %s is below 1.2", p.MinimalTLSVersion),
			validation.WithPropertyPath("minimalTlsVersion"),
			validation.WithSuggestion("Set minimalTlsVersion to 1.2"),
		)
	}

	if p.PublicNetworkAccess == "Enabled" {
		builder.AddInfo(
			"public network access is enabled",
			validation.WithPropertyPath("publicNetworkAccess"),
			validation.WithSuggestion("Disable public network access and use private endpoints where possible"),
		)
	}

	return builder.Build()
}
