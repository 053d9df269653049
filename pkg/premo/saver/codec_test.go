package saver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/premo/pkg/premo"
	"github.com/BrandonKowalski/premo/pkg/premo/saver"
)

var codecs = []saver.Codec{saver.TOML, saver.YAML, saver.JSON}

func sampleSnapshot() premo.Snapshot {
	return premo.Snapshot{
		premo.RootTag: {
			"stack_navigator_backstack": []premo.Description{
				premo.Describe("inbox"),
				premo.Describe("message", "17").WithData("unread"),
			},
			"set_navigator_current": 2,
		},
		"root/inbox": {
			"filter": "starred",
		},
	}
}

func decode[T any](t *testing.T, v any) T {
	t.Helper()
	enc, ok := v.(premo.Encoded)
	require.True(t, ok, "value is %T", v)
	var out T
	require.NoError(t, enc.Decode(&out))
	return out
}

func requireSample(t *testing.T, snapshot premo.Snapshot) {
	t.Helper()
	require.Equal(t, []string{premo.RootTag, "root/inbox"}, snapshot.Tags())

	root := snapshot[premo.RootTag]
	assert.Equal(t, sampleSnapshot()[premo.RootTag]["stack_navigator_backstack"],
		decode[[]premo.Description](t, root["stack_navigator_backstack"]))
	assert.Equal(t, 2, decode[int](t, root["set_navigator_current"]))
	assert.Equal(t, "starred", decode[string](t, snapshot["root/inbox"]["filter"]))
}

func TestCodecSnapshotRoundTrip(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.MarshalSnapshot(sampleSnapshot())
			require.NoError(t, err)

			snapshot, err := codec.UnmarshalSnapshot(data)
			require.NoError(t, err)
			requireSample(t, snapshot)
		})
	}
}

func TestCodecWritesDecodedValuesAgain(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.MarshalSnapshot(sampleSnapshot())
			require.NoError(t, err)
			loaded, err := codec.UnmarshalSnapshot(data)
			require.NoError(t, err)

			again, err := codec.MarshalSnapshot(loaded)
			require.NoError(t, err)
			snapshot, err := codec.UnmarshalSnapshot(again)
			require.NoError(t, err)
			requireSample(t, snapshot)
		})
	}
}

func TestCodecValueRoundTrip(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			want := premo.Describe("detail", "42")
			data, err := codec.MarshalValue(want)
			require.NoError(t, err)

			enc, err := codec.UnmarshalValue(data)
			require.NoError(t, err)
			assert.Equal(t, want, decode[premo.Description](t, enc))

			data, err = codec.MarshalValue(enc)
			require.NoError(t, err)
			enc, err = codec.UnmarshalValue(data)
			require.NoError(t, err)
			assert.Equal(t, want, decode[premo.Description](t, enc))
		})
	}
}

func TestCodecRejectsGarbage(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			_, err := codec.UnmarshalSnapshot([]byte("{{ not a snapshot"))
			assert.Error(t, err)
		})
	}
}

func TestDecodeIntoWrongTypeFails(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := codec.MarshalValue("seven")
			require.NoError(t, err)
			enc, err := codec.UnmarshalValue(data)
			require.NoError(t, err)

			var n int
			assert.Error(t, enc.Decode(&n))
		})
	}
}

func TestCodecFor(t *testing.T) {
	for name, want := range map[string]saver.Codec{
		"toml": saver.TOML,
		"YAML": saver.YAML,
		"yml":  saver.YAML,
		"json": saver.JSON,
		"":     saver.JSON,
	} {
		got, err := saver.CodecFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want.Name(), got.Name(), name)
	}

	_, err := saver.CodecFor("xml")
	assert.ErrorIs(t, err, saver.ErrUnknownCodec)
}
