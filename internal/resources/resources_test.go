package resources

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalPriceForSecondsRoundsUpToHour(t *testing.T) {
	assert.Equal(t, 1.0, TotalPriceForSeconds(1.0, 1))
	assert.Equal(t, 1.0, TotalPriceForSeconds(1.0, 3600))
	assert.Equal(t, 2.0, TotalPriceForSeconds(1.0, 3601))
	assert.Equal(t, 0.0, TotalPriceForSeconds(1.0, 0))
}

func TestNetworkGraphIdentityEdgeAlwaysZero(t *testing.T) {
	g := NewNetworkGraph()
	mbps, ok := g.Bandwidth("r1", "r1")
	require.True(t, ok)
	assert.Zero(t, mbps)
}

func TestNetworkGraphMissingEdgeIsNotZero(t *testing.T) {
	g := NewNetworkGraph()
	g.Connect("r1", "r2", 1000)
	_, ok := g.Bandwidth("r1", "r3")
	assert.False(t, ok, "an unconnected pair must report ok=false, not a zero bandwidth")
}

func TestNetworkGraphFromClasses(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.Add(Resource{Name: "ec2a", Schedulable: true}))
	require.NoError(t, cat.Add(Resource{Name: "ec2b", Schedulable: true}))
	require.NoError(t, cat.Add(Resource{Name: "fog1", Schedulable: true}))

	g := cat.NetworkGraphFromClasses(map[string]NodeClass{
		"ec2a": ClassEC2,
		"ec2b": ClassEC2,
		"fog1": ClassFog,
	})

	mbps, ok := g.Bandwidth("ec2a", "ec2b")
	require.True(t, ok)
	assert.Equal(t, 1000.0, mbps)

	mbps, ok = g.Bandwidth("ec2a", "fog1")
	require.True(t, ok)
	assert.Equal(t, 50.0, mbps)
}

func TestAWSPriceModel(t *testing.T) {
	m := NewAWSPriceModel()
	assert.Zero(t, m.PriceToTransmit("us-east-1a", "us-east-1a", 10))
	assert.Zero(t, m.PriceToTransmit("", "us-east-1a", 10))
	assert.InDelta(t, 0.2, m.PriceToTransmit("us-east-1a", "us-east-1b", 10), 1e-9)
	assert.InDelta(t, 0.9, m.PriceToTransmit("us-east-1a", "eu-west-1a", 10), 1e-9)
}

func TestCatalogDuplicateRejected(t *testing.T) {
	cat := NewCatalog()
	require.NoError(t, cat.Add(Resource{Name: "r1"}))
	err := cat.Add(Resource{Name: "r1"})
	assert.Error(t, err)
}
