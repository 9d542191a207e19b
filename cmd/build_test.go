package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-engine/nova/tools/novabuild/pkg/buildsys"
)

func TestPlanOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want buildsys.PlanOptions
	}{
		{
			name: "defaults",
			args: []string{"-p", "pleiades"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeBuild, Generate: true},
		},
		{
			name: "clean",
			args: []string{"-c"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeBuild, Clean: true, Generate: true},
		},
		{
			name: "no generate",
			args: []string{"--generate=false"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeBuild},
		},
		{
			name: "full rebuild",
			args: []string{"-f"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeFullRebuild, Generate: true},
		},
		{
			name: "clean only wins",
			args: []string{"-f", "--lint-only", "--clean-only"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeCleanOnly, Generate: true},
		},
		{
			name: "lint only beats full rebuild",
			args: []string{"-f", "--lint-only"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeLintOnly, Generate: true},
		},
		{
			name: "lint",
			args: []string{"-l"},
			want: buildsys.PlanOptions{Mode: buildsys.ModeBuild, Generate: true, Lint: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("build", pflag.ContinueOnError)
			addBuildFlags(flags)
			require.NoError(t, flags.Parse(tt.args))

			opts, err := planOptions(flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, opts)
		})
	}
}

func TestPrintProjects(t *testing.T) {
	out := new(bytes.Buffer)
	require.NoError(t, printProjects(out, buildsys.DefaultCatalog()))

	assert.Equal(t, "Available projects:\n"+
		" * api:        no dependencies\n"+
		" * pleiades:   depends on api\n", out.String())
}
