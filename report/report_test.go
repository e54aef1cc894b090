package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/moepig/aws-resource-count/resources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("total is the sum of all counts", func(t *testing.T) {
		counts := resources.Counts{
			"AWS::S3::Bucket":       2,
			"AWS::EC2::Instance":    1,
			"AWS::Lambda::Function": 7,
		}

		r := New(counts)
		assert.Equal(t, 10, r.TotalAssets)
		assert.Equal(t, map[string]int(counts), r.ResourceTypes)
	})

	t.Run("report does not share the counts map", func(t *testing.T) {
		counts := resources.Counts{"AWS::S3::Bucket": 1}
		r := New(counts)
		counts.Add("AWS::S3::Bucket")
		assert.Equal(t, 1, r.ResourceTypes["AWS::S3::Bucket"])
	})

	t.Run("empty counts", func(t *testing.T) {
		r := New(resources.Counts{})
		assert.Equal(t, 0, r.TotalAssets)
		assert.NotNil(t, r.ResourceTypes)
	})
}

func TestReport_Marshal(t *testing.T) {
	t.Run("single region scenario", func(t *testing.T) {
		r := New(resources.Counts{"AWS::S3::Bucket": 2, "AWS::EC2::Instance": 1})

		data, err := r.Marshal()
		require.NoError(t, err)

		expected := `{
    "resource_types": {
        "AWS::EC2::Instance": 1,
        "AWS::S3::Bucket": 2
    },
    "total_assets": 3
}`
		assert.Equal(t, expected, string(data))
	})

	t.Run("resource types are sorted", func(t *testing.T) {
		r := New(resources.Counts{"s3:bucket": 1, "ec2:instance": 1, "iam:role": 1, "acm:certificate": 1})

		data, err := r.Marshal()
		require.NoError(t, err)

		text := string(data)
		positions := []int{
			strings.Index(text, `"acm:certificate"`),
			strings.Index(text, `"ec2:instance"`),
			strings.Index(text, `"iam:role"`),
			strings.Index(text, `"s3:bucket"`),
		}
		for i := 1; i < len(positions); i++ {
			assert.Less(t, positions[i-1], positions[i])
		}
	})

	t.Run("empty report", func(t *testing.T) {
		data, err := New(resources.Counts{}).Marshal()
		require.NoError(t, err)
		assert.JSONEq(t, `{"resource_types": {}, "total_assets": 0}`, string(data))
	})
}

func TestWriter_Write(t *testing.T) {
	r := New(resources.Counts{"AWS::S3::Bucket": 2})

	t.Run("stdout only", func(t *testing.T) {
		var out bytes.Buffer
		err := NewWriter(&out, "").Write(r)
		require.NoError(t, err)

		var decoded Report
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, r, decoded)
		assert.True(t, strings.HasSuffix(out.String(), "}\n"))
	})

	t.Run("stdout and file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "count.json")

		var out bytes.Buffer
		err := NewWriter(&out, path).Write(r)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, strings.TrimSuffix(out.String(), "\n"), string(content))
	})

	t.Run("existing file is overwritten", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "count.json")
		require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale ", 100)), 0644))

		var out bytes.Buffer
		err := NewWriter(&out, path).Write(r)
		require.NoError(t, err)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "stale")
		assert.JSONEq(t, `{"resource_types": {"AWS::S3::Bucket": 2}, "total_assets": 2}`, string(content))
	})

	t.Run("unwritable output file", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		var out bytes.Buffer
		err := NewWriter(&out, filepath.Join(blocker, "count.json")).Write(r)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create output directory")
		// the report is still printed
		assert.Contains(t, out.String(), "total_assets")
	})
}
