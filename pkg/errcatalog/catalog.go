// Package errcatalog defines the stable catalog of hard validation
// failures. Every entry carries a code, a message template, and a
// remediation suggestion so tooling can surface actionable errors.
//
// Codes are a public, versioned contract: once shipped they are never
// reused or renumbered. Numbering ranges by category prefix:
//
//	ARM001-ARM099       ARM structure and deployment
//	NET001-NET099       networking
//	SEC001-SEC099       security
//	TYPE001-TYPE099     type safety
//	SCHEMA001-SCHEMA099 schema
//
// The catalog is built once at package initialization and never
// mutated; unsynchronized concurrent reads are safe.
package errcatalog

import (
	"sort"
	"strings"

	"github.com/flavioaiello/armcheck/pkg/validation"
)

// Category groups related error definitions.
type Category string

const (
	CategoryARMStructure Category = "ARM_STRUCTURE"
	CategoryDeployment   Category = "DEPLOYMENT"
	CategoryNetworking   Category = "NETWORKING"
	CategorySecurity     Category = "SECURITY"
	CategoryTypeSafety   Category = "TYPE_SAFETY"
	CategorySchema       Category = "SCHEMA"
)

// Prefix returns the code prefix for the category. ARM structure and
// deployment share the ARM numbering range.
func (c Category) Prefix() string {
	switch c {
	case CategoryARMStructure, CategoryDeployment:
		return "ARM"
	case CategoryNetworking:
		return "NET"
	case CategorySecurity:
		return "SEC"
	case CategoryTypeSafety:
		return "TYPE"
	case CategorySchema:
		return "SCHEMA"
	default:
		return ""
	}
}

// Definition is one catalog entry. Message and Suggestion are templates
// with {placeholder} tokens resolved from a caller-supplied context.
type Definition struct {
	Code        string              `json:"code"`
	Category    Category            `json:"category"`
	Title       string              `json:"title"`
	Message     string              `json:"message"`
	Description string              `json:"description"`
	Example     string              `json:"example,omitempty"`
	Suggestion  string              `json:"suggestion"`
	RelatedDocs []string            `json:"relatedDocs,omitempty"`
	Severity    validation.Severity `json:"severity"`
}

// catalog maps code to definition. Read-only after init.
var catalog = map[string]Definition{
	"ARM001": {
		Code:        "ARM001",
		Category:    CategoryARMStructure,
		Title:       "Missing template schema",
		Message:     "ARM template is missing the $schema property",
		Description: "Every ARM template must declare the deployment schema it targets. Without $schema, Azure Resource Manager rejects the deployment before evaluating any resources.",
		Example:     "\"$schema\": \"https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#\"",
		Suggestion:  "Add the $schema property at the top level of the template",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/templates/syntax"},
		Severity:    validation.SeverityError,
	},
	"ARM002": {
		Code:        "ARM002",
		Category:    CategoryARMStructure,
		Title:       "Missing content version",
		Message:     "ARM template is missing the contentVersion property",
		Description: "contentVersion documents the revision of the template and is required by Azure Resource Manager.",
		Example:     "\"contentVersion\": \"1.0.0.0\"",
		Suggestion:  "Add a contentVersion property, e.g. 1.0.0.0",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/templates/syntax"},
		Severity:    validation.SeverityError,
	},
	"ARM003": {
		Code:        "ARM003",
		Category:    CategoryARMStructure,
		Title:       "Empty resources array",
		Message:     "ARM template {templateName} declares no resources",
		Description: "A template without resources deploys nothing. This is usually a synthesis bug rather than an intentional no-op deployment.",
		Suggestion:  "Add at least one resource to {templateName}, or remove the template from the deployment",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/templates/syntax"},
		Severity:    validation.SeverityError,
	},
	"ARM004": {
		Code:        "ARM004",
		Category:    CategoryDeployment,
		Title:       "Invalid resource type format",
		Message:     "Resource type {resourceType} is not in provider/type format",
		Description: "ARM resource types must be namespaced by a resource provider, e.g. Microsoft.Network/virtualNetworks. A bare type cannot be resolved at deployment time.",
		Example:     "\"type\": \"Microsoft.Network/virtualNetworks\"",
		Suggestion:  "Use the fully qualified type including the provider namespace",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/templates/resource-declaration"},
		Severity:    validation.SeverityError,
	},
	"ARM005": {
		Code:        "ARM005",
		Category:    CategoryDeployment,
		Title:       "Missing API version",
		Message:     "Resource {resourceName} is missing the apiVersion property",
		Description: "Every resource declaration must pin the provider API version it was authored against; deployments with an unpinned version are rejected.",
		Example:     "\"apiVersion\": \"2023-04-01\"",
		Suggestion:  "Set apiVersion on {resourceName} to a version supported by the resource provider",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/templates/resource-declaration"},
		Severity:    validation.SeverityError,
	},
	"NET001": {
		Code:        "NET001",
		Category:    CategoryNetworking,
		Title:       "Subnet outside virtual network range",
		Message:     "Subnet CIDR {subnetCidr} is not within VNet range {vnetCidr}",
		Description: "Every subnet address prefix must be fully contained in one of the virtual network's address spaces. Azure rejects subnets that fall outside or exceed the VNet range.",
		Example:     "VNet 10.0.0.0/16 may contain subnet 10.0.1.0/24 but not 10.1.0.0/24 or 10.0.0.0/8",
		Suggestion:  "Choose a subnet prefix inside {vnetCidr}, or extend the VNet address space",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/virtual-networks-faq"},
		Severity:    validation.SeverityError,
	},
	"NET002": {
		Code:        "NET002",
		Category:    CategoryNetworking,
		Title:       "Overlapping CIDR ranges",
		Message:     "CIDR range {cidr1} overlaps with {cidr2}",
		Description: "Subnets and peered address spaces must not overlap; overlapping ranges make routing ambiguous and are rejected by Azure.",
		Suggestion:  "Renumber one of the ranges so {cidr1} and {cidr2} are disjoint",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/virtual-network-manage-subnet"},
		Severity:    validation.SeverityError,
	},
	"NET003": {
		Code:        "NET003",
		Category:    CategoryNetworking,
		Title:       "Invalid CIDR notation",
		Message:     "Value {value} of {property} is not valid IPv4 CIDR notation",
		Description: "Address spaces and prefixes must use IPv4 CIDR notation: four octets in 0-255 followed by a prefix length in 0-32.",
		Example:     "10.0.0.0/16",
		Suggestion:  "Correct {property} to IPv4 CIDR notation, e.g. 10.0.0.0/16",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/ip-services/private-ip-addresses"},
		Severity:    validation.SeverityError,
	},
	"NET004": {
		Code:        "NET004",
		Category:    CategoryNetworking,
		Title:       "Security rule priority out of range",
		Message:     "Security rule {ruleName} has priority {priority}, allowed range is 100-4096",
		Description: "NSG rule priorities must be between 100 and 4096. Lower numbers are evaluated first; values outside the range are rejected by Azure.",
		Suggestion:  "Set the priority of {ruleName} to a unique value between 100 and 4096",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/network-security-groups-overview"},
		Severity:    validation.SeverityError,
	},
	"NET005": {
		Code:        "NET005",
		Category:    CategoryNetworking,
		Title:       "Invalid port range",
		Message:     "Security rule {ruleName} has invalid port range {portRange}",
		Description: "Port specifications must be *, a single port in 0-65535, or start-end with start <= end.",
		Example:     "443, 1000-2000, or *",
		Suggestion:  "Correct the port range on {ruleName}; use * to match all ports",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/network-security-groups-overview"},
		Severity:    validation.SeverityError,
	},
	"NET006": {
		Code:        "NET006",
		Category:    CategoryNetworking,
		Title:       "Duplicate address space",
		Message:     "Address space {cidr} is declared more than once",
		Description: "A virtual network must list each address space at most once; duplicates are a configuration mistake even though they describe the same range.",
		Suggestion:  "Remove the duplicate declaration of {cidr}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/virtual-networks-faq"},
		Severity:    validation.SeverityError,
	},
	"SEC001": {
		Code:        "SEC001",
		Category:    CategorySecurity,
		Title:       "Unrestricted inbound source",
		Message:     "Inbound rule {ruleName} allows traffic from any source",
		Description: "An inbound allow rule with source * or 0.0.0.0/0 exposes the destination to the entire internet.",
		Suggestion:  "Restrict the source of {ruleName} to known address ranges or a service tag",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/network-security-group-how-it-works"},
		Severity:    validation.SeverityWarning,
	},
	"SEC002": {
		Code:        "SEC002",
		Category:    CategorySecurity,
		Title:       "Duplicate rule priority",
		Message:     "Rules {ruleName1} and {ruleName2} share priority {priority} in direction {direction}",
		Description: "Within one direction of an NSG every rule needs a unique priority; Azure rejects duplicates at deployment time.",
		Suggestion:  "Assign a distinct priority to {ruleName2}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/network-security-groups-overview"},
		Severity:    validation.SeverityError,
	},
	"SEC003": {
		Code:        "SEC003",
		Category:    CategorySecurity,
		Title:       "Rule allows all ports",
		Message:     "Rule {ruleName} allows traffic on all destination ports",
		Description: "An allow rule matching every destination port is rarely intentional outside of deny-by-default test setups.",
		Suggestion:  "Narrow {ruleName} to the ports the workload actually uses",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/virtual-network/network-security-group-how-it-works"},
		Severity:    validation.SeverityWarning,
	},
	"SEC004": {
		Code:        "SEC004",
		Category:    CategorySecurity,
		Title:       "Reserved administrator login",
		Message:     "Administrator login {login} is reserved and cannot be used",
		Description: "SQL Server rejects well-known administrative account names (admin, administrator, sa, root, dbmanager, loginmanager) as server administrator logins.",
		Suggestion:  "Choose a non-reserved administrator login name",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-sql/database/logins-create-manage"},
		Severity:    validation.SeverityError,
	},
	"SEC005": {
		Code:        "SEC005",
		Category:    CategorySecurity,
		Title:       "Weak administrator password",
		Message:     "Administrator password does not meet complexity requirements: {reason}",
		Description: "SQL Server administrator passwords must be 8-128 characters and contain characters from at least three of: uppercase letters, lowercase letters, digits, and symbols.",
		Suggestion:  "Use a password of 8-128 characters mixing at least three character classes",
		RelatedDocs: []string{"https://learn.microsoft.com/sql/relational-databases/security/password-policy"},
		Severity:    validation.SeverityError,
	},
	"TYPE001": {
		Code:        "TYPE001",
		Category:    CategoryTypeSafety,
		Title:       "Invalid enum value",
		Message:     "Value {value} of {property} is not one of {allowed}",
		Description: "The property accepts a closed set of values defined by the Azure API; anything else fails deployment.",
		Suggestion:  "Set {property} to one of {allowed}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/templates"},
		Severity:    validation.SeverityError,
	},
	"TYPE002": {
		Code:        "TYPE002",
		Category:    CategoryTypeSafety,
		Title:       "Invalid application type",
		Message:     "Application Insights type {value} is not supported",
		Description: "Application Insights components accept the application types web and other.",
		Example:     "\"applicationType\": \"web\"",
		Suggestion:  "Set the application type to web or other",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-monitor/app/create-workspace-resource"},
		Severity:    validation.SeverityError,
	},
	"TYPE003": {
		Code:        "TYPE003",
		Category:    CategoryTypeSafety,
		Title:       "Invalid retention period",
		Message:     "Retention of {value} days is not supported, allowed values are {allowed}",
		Description: "Application Insights retention must be one of the fixed periods supported by the service.",
		Suggestion:  "Choose a retention period from {allowed}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-monitor/logs/data-retention-configure"},
		Severity:    validation.SeverityError,
	},
	"SCHEMA001": {
		Code:        "SCHEMA001",
		Category:    CategorySchema,
		Title:       "Missing required property",
		Message:     "Required property {property} is missing on {resourceType}",
		Description: "The resource cannot be constructed without this property; there is no usable default.",
		Suggestion:  "Set {property} when declaring the {resourceType}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/templates"},
		Severity:    validation.SeverityError,
	},
	"SCHEMA002": {
		Code:        "SCHEMA002",
		Category:    CategorySchema,
		Title:       "Resource name violates naming rules",
		Message:     "Name {name} violates the naming rules for {resourceType}: {reason}",
		Description: "Azure resource types each carry their own naming rules for length, casing, and allowed characters.",
		Suggestion:  "Rename the {resourceType} to satisfy: {reason}",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/management/resource-name-rules"},
		Severity:    validation.SeverityError,
	},
	"SCHEMA003": {
		Code:        "SCHEMA003",
		Category:    CategorySchema,
		Title:       "Property length exceeded",
		Message:     "Property {property} exceeds the maximum length {maxLength}",
		Description: "String properties in ARM carry hard length limits enforced by the resource provider.",
		Suggestion:  "Shorten {property} to at most {maxLength} characters",
		RelatedDocs: []string{"https://learn.microsoft.com/azure/azure-resource-manager/management/resource-name-rules"},
		Severity:    validation.SeverityError,
	},
}

// Get returns the definition for a code.
func Get(code string) (Definition, bool) {
	def, ok := catalog[code]
	return def, ok
}

// ByCategory returns all definitions in a category, sorted by code.
func ByCategory(category Category) []Definition {
	var defs []Definition
	for _, def := range catalog {
		if def.Category == category {
			defs = append(defs, def)
		}
	}
	sortByCode(defs)
	return defs
}

// Search returns definitions whose code, title, description, or message
// contains the term, case-insensitively. Results are sorted by code.
func Search(term string) []Definition {
	needle := strings.ToLower(term)
	var defs []Definition
	for _, def := range catalog {
		haystack := strings.ToLower(def.Code + " " + def.Title + " " + def.Description + " " + def.Message)
		if strings.Contains(haystack, needle) {
			defs = append(defs, def)
		}
	}
	sortByCode(defs)
	return defs
}

// All returns every definition, sorted by code.
func All() []Definition {
	defs := make([]Definition, 0, len(catalog))
	for _, def := range catalog {
		defs = append(defs, def)
	}
	sortByCode(defs)
	return defs
}

func sortByCode(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool { return defs[i].Code < defs[j].Code })
}
