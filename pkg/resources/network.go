package resources

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/flavioaiello/armcheck/pkg/cidr"
	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/ports"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// NSG rule priority bounds.
const (
	MinRulePriority = 100
	MaxRulePriority = 4096
)

// Subnets smaller than /29 cannot be deployed; Azure reserves five
// addresses per subnet.
const maxSubnetPrefixBits = 29

// VirtualNetworkProps configures a Microsoft.Network/virtualNetworks resource.
type VirtualNetworkProps struct {
	// Name is the VNet name.
	Name string `yaml:"name" validate:"required,min=2,max=64"`
	// Location is the Azure region.
	Location string `yaml:"location" validate:"required,location"`
	// AddressSpace is the CIDR address space.
	AddressSpace []string `yaml:"addressSpace" validate:"required,min=1"`
	// DNSServers are custom DNS servers.
	DNSServers []string `yaml:"dnsServers,omitempty"`
	// Tags are Azure resource tags.
	Tags map[string]string `yaml:"tags,omitempty"`
	// Subnets are the subnet configurations.
	Subnets []SubnetProps `yaml:"subnets,omitempty" validate:"omitempty,dive"`
}

// SubnetProps configures a subnet within a virtual network.
type SubnetProps struct {
	// Name is the subnet name.
	Name string `yaml:"name" validate:"required,min=1,max=80"`
	// AddressPrefix is the CIDR address prefix.
	AddressPrefix string `yaml:"addressPrefix" validate:"required"`
	// NetworkSecurityGroup is the associated NSG name.
	NetworkSecurityGroup string `yaml:"networkSecurityGroup,omitempty"`
	// ServiceEndpoints are the enabled service endpoints.
	ServiceEndpoints []string `yaml:"serviceEndpoints,omitempty"`
}

// ResourceType returns the ARM resource type.
func (p *VirtualNetworkProps) ResourceType() string {
	return "Microsoft.Network/virtualNetworks"
}

// ValidateProps performs hard validation of the virtual network.
func (p *VirtualNetworkProps) ValidateProps() error {
	if err := validate.Struct(p); err != nil {
		return WrapFieldErrors(err)
	}

	seen := make(map[string]bool, len(p.AddressSpace))
	for _, space := range p.AddressSpace {
		if !cidr.IsValid(space) {
			return errcatalog.New("NET003", map[string]string{
				"value":    space,
				"property": "addressSpace",
			})
		}
		if seen[space] {
			return errcatalog.New("NET006", map[string]string{"cidr": space})
		}
		seen[space] = true
	}

	for _, subnet := range p.Subnets {
		if !cidr.IsValid(subnet.AddressPrefix) {
			return errcatalog.New("NET003", map[string]string{
				"value":    subnet.AddressPrefix,
				"property": fmt.Sprintf("subnets[%s].addressPrefix", subnet.Name),
			})
		}
		if !p.containsPrefix(subnet.AddressPrefix) {
			return errcatalog.New("NET001", map[string]string{
				"subnetCidr": subnet.AddressPrefix,
				"vnetCidr":   strings.Join(p.AddressSpace, ", "),
			})
		}
	}

	for i := 0; i < len(p.Subnets); i++ {
		for j := i + 1; j < len(p.Subnets); j++ {
			if cidr.Overlap(p.Subnets[i].AddressPrefix, p.Subnets[j].AddressPrefix) {
				return errcatalog.New("NET002", map[string]string{
					"cidr1": p.Subnets[i].AddressPrefix,
					"cidr2": p.Subnets[j].AddressPrefix,
				})
			}
		}
	}

	return nil
}

// containsPrefix reports whether any VNet address space contains the prefix.
func (p *VirtualNetworkProps) containsPrefix(prefix string) bool {
	for _, space := range p.AddressSpace {
		if cidr.IsWithin(prefix, space) {
			return true
		}
	}
	return false
}

// ValidateARMStructure performs soft structural validation.
func (p *VirtualNetworkProps) ValidateARMStructure() validation.Result {
	builder := validation.NewBuilder()

	builder.Merge(validation.ValidateResourceName(p.Name, "virtual network", 2, 64, nil))
	builder.Merge(validation.ValidateLocation(p.Location, true))
	builder.Merge(validation.ValidateTags(p.Tags, validation.DefaultMaxTags))
	builder.Merge(validation.ValidateCIDRArray(p.AddressSpace, "addressSpace", 1))

	for i, space := range p.AddressSpace {
		for j := i + 1; j < len(p.AddressSpace); j++ {
			if cidr.Overlap(space, p.AddressSpace[j]) {
				builder.AddWarning(
					fmt.Sprintf("address spaces %s and %s overlap", space, p.AddressSpace[j]),
					validation.WithPropertyPath("addressSpace"),
					validation.WithSuggestion("Declare disjoint address spaces"),
				)
			}
		}
	}

	for i, subnet := range p.Subnets {
		path := fmt.Sprintf("subnets[%d]", i)
		if prefix, ok := cidr.Parse(subnet.AddressPrefix); ok && prefix.Bits > maxSubnetPrefixBits {
			builder.AddWarning(
				fmt.Sprintf("subnet %s prefix %s is smaller than /29 and cannot be deployed", subnet.Name, subnet.AddressPrefix),
				validation.WithPropertyPath(path+".addressPrefix"),
				validation.WithSuggestion("Use a prefix of /29 or larger"),
			)
		}
		if subnet.NetworkSecurityGroup == "" {
			builder.AddInfo(
				fmt.Sprintf("subnet %s has no network security group", subnet.Name),
				validation.WithPropertyPath(path+".networkSecurityGroup"),
			)
		}
	}

	return builder.Build()
}

// SecurityRuleProps configures one NSG security rule.
type SecurityRuleProps struct {
	// Name is the rule name.
	Name string `yaml:"name" validate:"required,min=1,max=80"`
	// Priority orders rule evaluation, 100-4096, lower first.
	Priority int `yaml:"priority"`
	// Direction is Inbound or Outbound.
	Direction string `yaml:"direction"`
	// Access is Allow or Deny.
	Access string `yaml:"access"`
	// Protocol is Tcp, Udp, Icmp, Esp, Ah, or *.
	Protocol string `yaml:"protocol"`
	// SourceAddressPrefix is a CIDR, *, or a service tag.
	SourceAddressPrefix string `yaml:"sourceAddressPrefix"`
	// SourcePortRange is *, a port, or start-end.
	SourcePortRange string `yaml:"sourcePortRange"`
	// DestinationAddressPrefix is a CIDR, *, or a service tag.
	DestinationAddressPrefix string `yaml:"destinationAddressPrefix"`
	// DestinationPortRange is *, a port, or start-end.
	DestinationPortRange string `yaml:"destinationPortRange"`
}

// allowsAllSources reports whether the rule matches any source address.
func (r *SecurityRuleProps) allowsAllSources() bool {
	return r.SourceAddressPrefix == "*" ||
		r.SourceAddressPrefix == "0.0.0.0/0" ||
		strings.EqualFold(r.SourceAddressPrefix, "Internet")
}

// allowsAllPorts reports whether the rule matches any destination port.
func (r *SecurityRuleProps) allowsAllPorts() bool {
	pr, ok := ports.Parse(r.DestinationPortRange)
	return ok && pr.IsAll()
}

// NetworkSecurityGroupProps configures a
// Microsoft.Network/networkSecurityGroups resource.
type NetworkSecurityGroupProps struct {
	// Name is the NSG name.
	Name string `yaml:"name" validate:"required,min=1,max=80"`
	// Location is the Azure region.
	Location string `yaml:"location" validate:"required,location"`
	// Tags are Azure resource tags.
	Tags map[string]string `yaml:"tags,omitempty"`
	// SecurityRules are the security rules.
	SecurityRules []SecurityRuleProps `yaml:"securityRules,omitempty" validate:"omitempty,dive"`
}

// Closed value sets for rule fields.
var (
	ruleDirections = []string{"Inbound", "Outbound"}
	ruleAccesses   = []string{"Allow", "Deny"}
	ruleProtocols  = []string{"Tcp", "Udp", "Icmp", "Esp", "Ah", "*"}
)

func oneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// ResourceType returns the ARM resource type.
func (p *NetworkSecurityGroupProps) ResourceType() string {
	return "Microsoft.Network/networkSecurityGroups"
}

// ValidateProps performs hard validation of the NSG and its rules.
func (p *NetworkSecurityGroupProps) ValidateProps() error {
	if err := validate.Struct(p); err != nil {
		return WrapFieldErrors(err)
	}

	for _, rule := range p.SecurityRules {
		if rule.Priority < MinRulePriority || rule.Priority > MaxRulePriority {
			return errcatalog.New("NET004", map[string]string{
				"ruleName": rule.Name,
				"priority": strconv.Itoa(rule.Priority),
			})
		}

		enumChecks := []struct {
			property string
			value    string
			allowed  []string
		}{
			{"direction", rule.Direction, ruleDirections},
			{"access", rule.Access, ruleAccesses},
			{"protocol", rule.Protocol, ruleProtocols},
		}
		for _, check := range enumChecks {
			if !oneOf(check.value, check.allowed) {
				return errcatalog.New("TYPE001", map[string]string{
					"value":    check.value,
					"property": fmt.Sprintf("securityRules[%s].%s", rule.Name, check.property),
					"allowed":  strings.Join(check.allowed, ", "),
				})
			}
		}

		for _, portRange := range []string{rule.SourcePortRange, rule.DestinationPortRange} {
			if !ports.IsValid(portRange) {
				return errcatalog.New("NET005", map[string]string{
					"ruleName":  rule.Name,
					"portRange": portRange,
				})
			}
		}

		// Prefixes containing a slash must be real CIDR ranges;
		// anything else is taken for a service tag and left to ARM.
		prefixChecks := []struct {
			property string
			value    string
		}{
			{"sourceAddressPrefix", rule.SourceAddressPrefix},
			{"destinationAddressPrefix", rule.DestinationAddressPrefix},
		}
		for _, check := range prefixChecks {
			if strings.Contains(check.value, "/") && !cidr.IsValid(check.value) {
				return errcatalog.New("NET003", map[string]string{
					"value":    check.value,
					"property": fmt.Sprintf("securityRules[%s].%s", rule.Name, check.property),
				})
			}
		}
	}

	return nil
}

// ValidateARMStructure performs soft structural validation: duplicate
// priorities per direction and overly permissive allow rules.
func (p *NetworkSecurityGroupProps) ValidateARMStructure() validation.Result {
	builder := validation.NewBuilder()

	builder.Merge(validation.ValidateResourceName(p.Name, "network security group", 1, 80, nil))
	builder.Merge(validation.ValidateLocation(p.Location, true))
	builder.Merge(validation.ValidateTags(p.Tags, validation.DefaultMaxTags))

	byPriority := make(map[string]string, len(p.SecurityRules))
	for _, rule := range p.SecurityRules {
		key := fmt.Sprintf("%s/%d", rule.Direction, rule.Priority)
		if firstRule, ok := byPriority[key]; ok {
			ce := errcatalog.New("SEC002", map[string]string{
				"ruleName1": firstRule,
				"ruleName2": rule.Name,
				"priority":  strconv.Itoa(rule.Priority),
				"direction": rule.Direction,
			})
			builder.AddError(
				ce.Message,
				validation.WithDetails(ce.Code),
				validation.WithSuggestion(ce.Suggestion),
				validation.WithPropertyPath(fmt.Sprintf("securityRules[%s].priority", rule.Name)),
			)
			continue
		}
		byPriority[key] = rule.Name
	}

	for _, rule := range p.SecurityRules {
		if rule.Access != "Allow" {
			continue
		}
		if rule.Direction == "Inbound" && rule.allowsAllSources() {
			ce := errcatalog.New("SEC001", map[string]string{"ruleName": rule.Name})
			builder.AddWarning(
				ce.Message,
				validation.WithDetails(ce.Code),
				validation.WithSuggestion(ce.Suggestion),
				validation.WithPropertyPath(fmt.Sprintf("securityRules[%s].sourceAddressPrefix", rule.Name)),
			)
		}
		if rule.allowsAllPorts() {
			ce := errcatalog.New("SEC003", map[string]string{"ruleName": rule.Name})
			builder.AddWarning(
				ce.Message,
				validation.WithDetails(ce.Code),
				validation.WithSuggestion(ce.Suggestion),
				validation.WithPropertyPath(fmt.Sprintf("securityRules[%s].destinationPortRange", rule.Name)),
			)
		}
	}

	return builder.Build()
}
