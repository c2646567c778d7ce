package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCapability(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Capability
		wantErr bool
	}{
		{name: "exact", input: "database", want: CapabilityDatabase},
		{name: "uppercase", input: "DATABASE", want: CapabilityDatabase},
		{name: "underscore form", input: "web_framework", want: CapabilityWebFramework},
		{name: "surrounding whitespace", input: "  cache ", want: CapabilityCache},
		{name: "hyphen form", input: "message-queue", want: CapabilityMessageQueue},
		{name: "unknown", input: "blockchain", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCapability(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCapabilityIsValid(t *testing.T) {
	for _, c := range AllCapabilities() {
		assert.True(t, c.IsValid(), "capability %s should be valid", c)
	}
	assert.False(t, Capability("mainframe").IsValid())
	assert.False(t, Capability("").IsValid())
}

func TestAllCapabilitiesIsACopy(t *testing.T) {
	first := AllCapabilities()
	first[0] = Capability("mutated")
	assert.Equal(t, CapabilityWebFramework, AllCapabilities()[0])
}

func TestParseRelation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Relation
		wantErr bool
	}{
		{name: "exact", input: "compatible-with", want: RelationCompatibleWith},
		{name: "underscore form", input: "compatible_with", want: RelationCompatibleWith},
		{name: "uppercase", input: "CONFLICTS-WITH", want: RelationConflictsWith},
		{name: "alternative", input: "alternative-to", want: RelationAlternativeTo},
		{name: "unknown", input: "friends-with", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelation(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelationIsValid(t *testing.T) {
	for _, r := range AllRelations() {
		assert.True(t, r.IsValid(), "relation %s should be valid", r)
	}
	assert.False(t, Relation("uses").IsValid())
}
