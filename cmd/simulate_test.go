package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/separk-1/mdp-intervention/sim"
)

func TestSelectPolicy_Precedence(t *testing.T) {
	m, err := LoadModel(testModelJSON)
	require.NoError(t, err)
	rc := &RunConfig{Policy: map[string]string{"S3": sim.ActionIntervene}}

	// budget 0.2 admits the baseline (id 0) and S0 alone (id 1)
	dir := t.TempDir()
	o := simulateOptions{pipelineOptions: defaultPipelineOptions(), policyID: -1}
	o.resultsDir = dir
	o.modelPath = testModelJSON
	o.budget = 0.2
	require.NoError(t, runEnumerate(o.pipelineOptions, &bytes.Buffer{}))
	listPath := filepath.Join(dir, "policy_list.json")

	tests := []struct {
		name string
		opts func(simulateOptions) simulateOptions
		rc   *RunConfig
		want []string
	}{
		{"intervene flag wins", func(o simulateOptions) simulateOptions {
			o.intervene = []string{"S1", "S2"}
			o.policyList, o.policyID = listPath, 1
			return o
		}, rc, []string{"S1", "S2"}},
		{"policy list next", func(o simulateOptions) simulateOptions {
			o.policyList, o.policyID = listPath, 1
			return o
		}, rc, []string{"S0"}},
		{"run config policy", func(o simulateOptions) simulateOptions { return o }, rc, []string{"S3"}},
		{"baseline otherwise", func(o simulateOptions) simulateOptions { return o }, nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := selectPolicy(m, tc.opts(o), tc.rc)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.IntervenedStates())
		})
	}
}

func TestSelectPolicy_Errors(t *testing.T) {
	m, err := LoadModel(testModelJSON)
	require.NoError(t, err)

	o := simulateOptions{intervene: []string{"S9"}}
	_, err = selectPolicy(m, o, nil)
	var invalid *sim.InvalidPolicyError
	assert.True(t, errors.As(err, &invalid))

	o = simulateOptions{policyList: writeTemp(t, "list.json", "[]"), policyID: 0}
	_, err = selectPolicy(m, o, nil)
	assert.ErrorContains(t, err, "out of range")
}

func TestRunSimulate_WritesRecordsAndStats(t *testing.T) {
	// GIVEN the run config's S3+S4 policy
	o := simulateOptions{pipelineOptions: testOptions(t), policyID: -1, output: DefaultRunResultFile}
	o.configPath = testRunConfig
	rc, err := resolveRunConfig(changedFlags{"runs": true}, &o.pipelineOptions)
	require.NoError(t, err)
	o.recordSteps = true

	// WHEN it is simulated
	var out bytes.Buffer
	require.NoError(t, runSimulate(o, rc, &out))

	// THEN records are written and statistics printed
	data, err := os.ReadFile(filepath.Join(o.resultsDir, DefaultRunResultFile))
	require.NoError(t, err)
	var records []sim.RunRecord
	require.NoError(t, json.Unmarshal(data, &records))
	assert.Len(t, records, 50)
	for i, r := range records {
		assert.Equal(t, i, r.RunIndex)
		assert.LessOrEqual(t, r.Steps, 10)
	}
	text := out.String()
	assert.Contains(t, text, "S3=intervene;S4=intervene")
	assert.Contains(t, text, "Intervention cost: 1.4")
	assert.Contains(t, text, "Final state distribution:")
	assert.Contains(t, text, "Trace: 50 runs")
}

func TestRunSimulate_SameSeedSameRecords(t *testing.T) {
	run := func() []byte {
		o := simulateOptions{pipelineOptions: testOptions(t), intervene: []string{"S0"}, output: "r.json"}
		require.NoError(t, runSimulate(o, nil, &bytes.Buffer{}))
		data, err := os.ReadFile(filepath.Join(o.resultsDir, "r.json"))
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, run(), run())
}
