package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobEnums(t *testing.T) {
	typ, err := ParseJobType("full-time")
	require.NoError(t, err)
	assert.Equal(t, JobTypeFullTime, typ)

	typ, err = ParseJobType(" PART_TIME ")
	require.NoError(t, err)
	assert.Equal(t, JobTypePartTime, typ)

	_, err = ParseJobType("contract")
	assert.Error(t, err)

	_, err = ParseJobSeniority("staff")
	assert.Error(t, err)

	model, err := ParseJobModel("remote")
	require.NoError(t, err)
	assert.Equal(t, JobModelRemote, model)
}

func TestJobJSON(t *testing.T) {
	job := Job{ID: 1, Type: JobTypeFullTime, Seniority: SeniorityLead, Model: JobModelOnsite, Status: JobStatusPaused}

	b, err := json.Marshal(job)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"full-time"`)
	assert.Contains(t, string(b), `"status":"paused"`)

	var in struct {
		Type JobType `json:"type"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"internship"}`), &in))
	assert.Equal(t, JobTypeInternship, in.Type)
	assert.Error(t, json.Unmarshal([]byte(`{"type":"gig"}`), &in))
}
