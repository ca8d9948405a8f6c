package traco

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FarzamTP/TRACO-HexBug/internal/fsutil"
	"github.com/FarzamTP/TRACO-HexBug/internal/testutil"
)

func TestParseRoiDocument(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []PositionRecord
	}{
		{
			name: "single entry",
			raw:  `{"rois":[{"z":0,"id":1,"pos":[1.5,2.5]}]}`,
			want: []PositionRecord{{Time: 0, ObjectID: 1, X: 1.5, Y: 2.5}},
		},
		{
			name: "document order kept",
			raw:  `{"rois":[{"z":3,"id":1,"pos":[1,2]},{"z":0,"id":0,"pos":[3,4]}]}`,
			want: []PositionRecord{
				{Time: 3, ObjectID: 1, X: 1, Y: 2},
				{Time: 0, ObjectID: 0, X: 3, Y: 4},
			},
		},
		{
			name: "unknown keys ignored",
			raw:  `{"version":2,"rois":[{"z":1,"id":2,"pos":[5,6],"width":10,"orientation":0.3}]}`,
			want: []PositionRecord{{Time: 1, ObjectID: 2, X: 5, Y: 6}},
		},
		{
			name: "extra pos elements ignored",
			raw:  `{"rois":[{"z":1,"id":2,"pos":[5,6,7,"label"]}]}`,
			want: []PositionRecord{{Time: 1, ObjectID: 2, X: 5, Y: 6}},
		},
		{
			name: "integral floats accepted for z and id",
			raw:  `{"rois":[{"z":3.0,"id":1e0,"pos":[-1.25,0]}]}`,
			want: []PositionRecord{{Time: 3, ObjectID: 1, X: -1.25, Y: 0}},
		},
		{
			name: "full precision coordinates",
			raw:  `{"rois":[{"z":0,"id":1,"pos":[822.7252539996302,92.57577718188634]}]}`,
			want: []PositionRecord{{Time: 0, ObjectID: 1, X: 822.7252539996302, Y: 92.57577718188634}},
		},
		{
			name: "empty rois",
			raw:  `{"rois":[]}`,
			want: []PositionRecord{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRoiDocument([]byte(tt.raw))
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseRoiDocument() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRoiDocument_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		raw       string
		wantUnit  string
		wantIndex int
		wantField string
	}{
		{"invalid json", `{"rois":[`, "", -1, ""},
		{"document is array", `[{"z":0,"id":0,"pos":[1,2]}]`, "", -1, ""},
		{"document is null", `null`, "", -1, ""},
		{"missing rois", `{"regions":[]}`, "", -1, "rois"},
		{"rois null", `{"rois":null}`, "", -1, "rois"},
		{"rois not array", `{"rois":{"z":0}}`, "", -1, "rois"},
		{"entry not object", `{"rois":[[0,1,2,3]]}`, "roi", 0, ""},
		{"missing z", `{"rois":[{"id":0,"pos":[1,2]}]}`, "roi", 0, "z"},
		{"missing id", `{"rois":[{"z":0,"pos":[1,2]}]}`, "roi", 0, "id"},
		{"missing pos", `{"rois":[{"z":0,"id":0,"pos":[1,2]},{"z":0,"id":1}]}`, "roi", 1, "pos"},
		{"pos too short", `{"rois":[{"z":0,"id":0,"pos":[1]}]}`, "roi", 0, "pos"},
		{"pos not array", `{"rois":[{"z":0,"id":0,"pos":"1,2"}]}`, "roi", 0, "pos"},
		{"pos null", `{"rois":[{"z":0,"id":0,"pos":null}]}`, "roi", 0, "pos"},
		{"pos element string", `{"rois":[{"z":0,"id":0,"pos":[1,"2"]}]}`, "roi", 0, "pos"},
		{"fractional z", `{"rois":[{"z":0.5,"id":0,"pos":[1,2]}]}`, "roi", 0, "z"},
		{"string id", `{"rois":[{"z":0,"id":"a","pos":[1,2]}]}`, "roi", 0, "id"},
		{"boolean id", `{"rois":[{"z":0,"id":true,"pos":[1,2]}]}`, "roi", 0, "id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseRoiDocument([]byte(tt.raw))
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrParse), "want ErrParse, got %v", err)
			assert.False(t, errors.Is(err, ErrIO))

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantUnit, pe.Unit)
			assert.Equal(t, tt.wantIndex, pe.Index)
			assert.Equal(t, tt.wantField, pe.Field)
		})
	}
}

func TestParseRoiDocumentKey(t *testing.T) {
	t.Parallel()

	raw := []byte(`{"regions":[{"z":2,"id":4,"pos":[1,2]}],"rois":[]}`)

	got, err := ParseRoiDocumentKey(raw, "regions")
	require.NoError(t, err)
	assert.Equal(t, []PositionRecord{{Time: 2, ObjectID: 4, X: 1, Y: 2}}, got)

	got, err = ParseRoiDocument(raw)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadRoiFile(t *testing.T) {
	t.Parallel()

	mem := fsutil.NewMemoryFileSystem()
	mem.WriteFile("data/sample.traco", []byte(testutil.SampleTraco))
	mem.WriteFile("data/broken.traco", []byte(`{"rois":[{"z":0,"id":0}]}`))

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		got, err := ReadRoiFile(mem, "data/sample.traco", "")
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, PositionRecord{Time: 0, ObjectID: 1, X: 822.7252539996302, Y: 92.57577718188634}, got[0])
		assert.Equal(t, 0, got[3].ObjectID)
		assert.Equal(t, 1, got[3].Time)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := ReadRoiFile(mem, "data/nope.traco", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIO))
		assert.True(t, errors.Is(err, fs.ErrNotExist))

		var ioe *IOError
		require.True(t, errors.As(err, &ioe))
		assert.Equal(t, "read", ioe.Op)
		assert.Equal(t, "data/nope.traco", ioe.Path)
	})

	t.Run("parse error carries path", func(t *testing.T) {
		t.Parallel()
		_, err := ReadRoiFile(mem, "data/broken.traco", "")
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "data/broken.traco", pe.Source)
		assert.Equal(t, `parse data/broken.traco: roi 0: field "pos": missing field`, err.Error())
	})
}
