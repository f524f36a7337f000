package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavioaiello/armcheck/pkg/errcatalog"
	"github.com/flavioaiello/armcheck/pkg/validation"
)

// Test constants.
const (
	testLocation = "westeurope"
	testVNetName = "vnet-hub"
)

func validVNet() *VirtualNetworkProps {
	return &VirtualNetworkProps{
		Name:         testVNetName,
		Location:     testLocation,
		AddressSpace: []string{"10.0.0.0/16"},
		Subnets: []SubnetProps{
			{Name: "snet-app", AddressPrefix: "10.0.1.0/24", NetworkSecurityGroup: "nsg-app"},
			{Name: "snet-db", AddressPrefix: "10.0.2.0/24", NetworkSecurityGroup: "nsg-db"},
		},
		Tags: map[string]string{"environment": "test"},
	}
}

func catalogCode(t *testing.T, err error) string {
	t.Helper()
	var ve *errcatalog.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Code
}

func TestVirtualNetworkValidateProps(t *testing.T) {
	assert.NoError(t, validVNet().ValidateProps())
}

func TestVirtualNetworkMissingName(t *testing.T) {
	vnet := validVNet()
	vnet.Name = ""

	err := vnet.ValidateProps()
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name", fe.Field)
}

func TestVirtualNetworkMissingSubnetName(t *testing.T) {
	vnet := validVNet()
	vnet.Subnets[1].Name = ""

	err := vnet.ValidateProps()
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name", fe.Field)
	assert.Equal(t, "required", fe.Tag)
}

func TestVirtualNetworkInvalidAddressSpace(t *testing.T) {
	vnet := validVNet()
	vnet.AddressSpace = []string{"10.0.0.0/16", "not-a-cidr"}

	err := vnet.ValidateProps()
	assert.Equal(t, "NET003", catalogCode(t, err))
}

func TestVirtualNetworkDuplicateAddressSpace(t *testing.T) {
	vnet := validVNet()
	vnet.AddressSpace = []string{"10.0.0.0/16", "10.0.0.0/16"}

	err := vnet.ValidateProps()
	assert.Equal(t, "NET006", catalogCode(t, err))
}

func TestVirtualNetworkSubnetOutsideRange(t *testing.T) {
	vnet := validVNet()
	vnet.Subnets = append(vnet.Subnets, SubnetProps{Name: "snet-out", AddressPrefix: "192.168.0.0/24"})

	err := vnet.ValidateProps()
	require.Error(t, err)
	assert.Equal(t, "NET001", catalogCode(t, err))

	var ve *errcatalog.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Subnet CIDR 192.168.0.0/24 is not within VNet range 10.0.0.0/16", ve.Message)
}

func TestVirtualNetworkSubnetInSecondAddressSpace(t *testing.T) {
	vnet := validVNet()
	vnet.AddressSpace = []string{"10.0.0.0/16", "172.16.0.0/12"}
	vnet.Subnets = append(vnet.Subnets, SubnetProps{Name: "snet-alt", AddressPrefix: "172.16.5.0/24"})

	assert.NoError(t, vnet.ValidateProps())
}

func TestVirtualNetworkOverlappingSubnets(t *testing.T) {
	vnet := validVNet()
	vnet.Subnets = []SubnetProps{
		{Name: "snet-a", AddressPrefix: "10.0.1.0/24"},
		{Name: "snet-b", AddressPrefix: "10.0.1.128/25"},
	}

	err := vnet.ValidateProps()
	assert.Equal(t, "NET002", catalogCode(t, err))
}

func TestVirtualNetworkValidateARMStructure(t *testing.T) {
	result := validVNet().ValidateARMStructure()
	assert.True(t, result.Valid)
}

func TestVirtualNetworkARMStructureFindings(t *testing.T) {
	vnet := validVNet()
	vnet.Subnets = []SubnetProps{
		// No NSG and a prefix too small to deploy.
		{Name: "snet-tiny", AddressPrefix: "10.0.1.0/30"},
	}

	result := vnet.ValidateARMStructure()
	assert.True(t, result.Valid)
	assert.Equal(t, 1, result.WarningCount)
	assert.Equal(t, 1, result.InfoCount)
}

func validNSG() *NetworkSecurityGroupProps {
	return &NetworkSecurityGroupProps{
		Name:     "nsg-app",
		Location: testLocation,
		SecurityRules: []SecurityRuleProps{
			{
				Name:                     "allow-https",
				Priority:                 100,
				Direction:                "Inbound",
				Access:                   "Allow",
				Protocol:                 "Tcp",
				SourceAddressPrefix:      "10.0.0.0/16",
				SourcePortRange:          "*",
				DestinationAddressPrefix: "10.0.1.0/24",
				DestinationPortRange:     "443",
			},
			{
				Name:                     "deny-all",
				Priority:                 4096,
				Direction:                "Inbound",
				Access:                   "Deny",
				Protocol:                 "*",
				SourceAddressPrefix:      "*",
				SourcePortRange:          "*",
				DestinationAddressPrefix: "*",
				DestinationPortRange:     "*",
			},
		},
	}
}

func TestNSGValidateProps(t *testing.T) {
	assert.NoError(t, validNSG().ValidateProps())
}

func TestNSGMissingRuleName(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[0].Name = ""

	err := nsg.ValidateProps()
	require.Error(t, err)
	var fe FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name", fe.Field)
	assert.Equal(t, "required", fe.Tag)
}

func TestNSGPriorityOutOfRange(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[0].Priority = 99

	err := nsg.ValidateProps()
	assert.Equal(t, "NET004", catalogCode(t, err))

	nsg.SecurityRules[0].Priority = 4097
	err = nsg.ValidateProps()
	assert.Equal(t, "NET004", catalogCode(t, err))
}

func TestNSGInvalidEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SecurityRuleProps)
	}{
		{"direction", func(r *SecurityRuleProps) { r.Direction = "Sideways" }},
		{"access", func(r *SecurityRuleProps) { r.Access = "Maybe" }},
		{"protocol", func(r *SecurityRuleProps) { r.Protocol = "Carrier-Pigeon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nsg := validNSG()
			tt.mutate(&nsg.SecurityRules[0])
			err := nsg.ValidateProps()
			assert.Equal(t, "TYPE001", catalogCode(t, err))
		})
	}
}

func TestNSGInvalidPortRange(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[0].DestinationPortRange = "2000-1000"

	err := nsg.ValidateProps()
	require.Error(t, err)
	assert.Equal(t, "NET005", catalogCode(t, err))

	var ve *errcatalog.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "allow-https")
}

func TestNSGInvalidPrefixCIDR(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[0].SourceAddressPrefix = "10.0.0.0/99"

	err := nsg.ValidateProps()
	assert.Equal(t, "NET003", catalogCode(t, err))
}

func TestNSGServiceTagPrefixAccepted(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[0].SourceAddressPrefix = "AzureLoadBalancer"

	assert.NoError(t, nsg.ValidateProps())
}

func TestNSGDuplicatePriority(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[1].Priority = nsg.SecurityRules[0].Priority

	result := nsg.ValidateARMStructure()
	assert.False(t, result.Valid)

	found := false
	for _, issue := range result.Issues {
		if issue.Severity == validation.SeverityError {
			found = true
			assert.Contains(t, issue.Message, "share priority 100")
		}
	}
	assert.True(t, found)
}

func TestNSGSamePriorityDifferentDirections(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules[1].Priority = nsg.SecurityRules[0].Priority
	nsg.SecurityRules[1].Direction = "Outbound"

	result := nsg.ValidateARMStructure()
	assert.True(t, result.Valid)
}

func TestNSGAllowAllWarnings(t *testing.T) {
	nsg := validNSG()
	nsg.SecurityRules = []SecurityRuleProps{{
		Name:                     "allow-everything",
		Priority:                 100,
		Direction:                "Inbound",
		Access:                   "Allow",
		Protocol:                 "*",
		SourceAddressPrefix:      "*",
		SourcePortRange:          "*",
		DestinationAddressPrefix: "*",
		DestinationPortRange:     "*",
	}}

	result := nsg.ValidateARMStructure()
	// Representable but suspicious: warnings only.
	assert.True(t, result.Valid)
	assert.Equal(t, 2, result.WarningCount)

	codes := make(map[string]validation.Issue, len(result.Issues))
	for _, issue := range result.Issues {
		codes[issue.Details] = issue
	}
	require.Contains(t, codes, "SEC001")
	require.Contains(t, codes, "SEC003")
	assert.Equal(t, "Inbound rule allow-everything allows traffic from any source", codes["SEC001"].Message)
	assert.Contains(t, codes["SEC001"].PropertyPath, "sourceAddressPrefix")
	assert.NotEmpty(t, codes["SEC001"].Suggestion)
	assert.Equal(t, "Rule allow-everything allows traffic on all destination ports", codes["SEC003"].Message)
	assert.Contains(t, codes["SEC003"].PropertyPath, "destinationPortRange")
	assert.NotEmpty(t, codes["SEC003"].Suggestion)
}

func TestNSGDenyRulesDoNotWarn(t *testing.T) {
	nsg := validNSG()
	// The deny-all rule matches everything but deny rules are exempt.
	result := nsg.ValidateARMStructure()
	assert.Zero(t, result.WarningCount)
}
