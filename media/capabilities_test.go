package media_test

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"sfu/media"
	"testing"
)

func vp8Parameters() media.RTPParameters {
	return media.RTPParameters{
		Codecs:    []media.CodecParameters{{MimeType: "video/VP8", PayloadType: 101, ClockRate: 90000}},
		Encodings: []media.Encoding{{SSRC: 1111}},
		RTCP:      media.RTCPParameters{CNAME: "alice"},
	}
}

func TestNewCapabilities(t *testing.T) {
	t.Run("given default codecs when capabilities are built then payload types are assigned in order", func(t *testing.T) {
		caps, err := media.NewCapabilities(media.DefaultCodecs())
		require.NoError(t, err)
		require.Len(t, caps.Codecs, len(media.DefaultCodecs()))
		for i, c := range caps.Codecs {
			assert.Equal(t, uint8(96+i), c.PreferredPayloadType)
		}
	})

	t.Run("given no codec when capabilities are built then return error", func(t *testing.T) {
		_, err := media.NewCapabilities(nil)
		assert.ErrorIs(t, err, media.ErrUnsupportedCodec)
	})

	t.Run("given mime type of another kind when capabilities are built then return error", func(t *testing.T) {
		_, err := media.NewCapabilities([]media.Codec{{Kind: media.KindAudio, MimeType: "video/VP8", ClockRate: 90000}})
		assert.ErrorIs(t, err, media.ErrInvalidParameters)
	})
}

func TestValidateProducer(t *testing.T) {
	caps, err := media.NewCapabilities(media.DefaultCodecs())
	require.NoError(t, err)

	tests := []struct {
		name    string
		kind    media.Kind
		params  media.RTPParameters
		wantErr error
	}{
		{
			name:   "given supported video codec when validated then succeed",
			kind:   media.KindVideo,
			params: vp8Parameters(),
		},
		{
			name:    "given unknown kind when validated then return invalid kind",
			kind:    "data",
			params:  vp8Parameters(),
			wantErr: media.ErrInvalidKind,
		},
		{
			name:    "given audio kind with video codec when validated then return invalid parameters",
			kind:    media.KindAudio,
			params:  vp8Parameters(),
			wantErr: media.ErrInvalidParameters,
		},
		{
			name: "given unsupported codec when validated then return unsupported codec",
			kind: media.KindVideo,
			params: media.RTPParameters{
				Codecs: []media.CodecParameters{{MimeType: "video/AV1", PayloadType: 45, ClockRate: 90000}},
			},
			wantErr: media.ErrUnsupportedCodec,
		},
		{
			name:    "given no codec when validated then return invalid parameters",
			kind:    media.KindVideo,
			params:  media.RTPParameters{},
			wantErr: media.ErrInvalidParameters,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := media.ValidateProducer(tt.kind, tt.params, caps)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCanConsume(t *testing.T) {
	h264 := func(mode, profile string) media.RTPParameters {
		return media.RTPParameters{Codecs: []media.CodecParameters{{
			MimeType:   "video/H264",
			ClockRate:  90000,
			Parameters: map[string]string{"packetization-mode": mode, "profile-level-id": profile},
		}}}
	}
	caps, err := media.NewCapabilities(media.DefaultCodecs())
	require.NoError(t, err)

	tests := []struct {
		name   string
		params media.RTPParameters
		caps   media.RTPCapabilities
		want   bool
	}{
		{name: "given same codec when checked then return true", params: vp8Parameters(), caps: caps, want: true},
		{name: "given empty capabilities when checked then return false", params: vp8Parameters(), caps: media.RTPCapabilities{}, want: false},
		{name: "given matching h264 profile when checked then return true", params: h264("1", "42e01f"), caps: caps, want: true},
		{name: "given other packetization mode when checked then return false", params: h264("0", "42e01f"), caps: caps, want: false},
		{name: "given unknown h264 profile when checked then return false", params: h264("1", "640032"), caps: caps, want: false},
		{
			name: "given opus with other channel count when checked then return false",
			params: media.RTPParameters{Codecs: []media.CodecParameters{
				{MimeType: "audio/opus", ClockRate: 48000, Channels: 1},
			}},
			caps: caps,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, media.CanConsume(tt.params, tt.caps))
		})
	}
}

func TestConsumerParameters(t *testing.T) {
	caps, err := media.NewCapabilities(media.DefaultCodecs())
	require.NoError(t, err)

	t.Run("given compatible capabilities when negotiated then use preferred payload type", func(t *testing.T) {
		params, err := media.ConsumerParameters(vp8Parameters(), caps, 42, "0")
		require.NoError(t, err)
		require.Len(t, params.Codecs, 1)
		assert.Equal(t, "video/VP8", params.Codecs[0].MimeType)
		assert.Equal(t, uint8(97), params.Codecs[0].PayloadType)
		assert.Equal(t, []media.Encoding{{SSRC: 42}}, params.Encodings)
		assert.Equal(t, "alice", params.RTCP.CNAME)
		assert.Equal(t, "0", params.MID)
	})

	t.Run("given incompatible capabilities when negotiated then return error", func(t *testing.T) {
		_, err := media.ConsumerParameters(vp8Parameters(), media.RTPCapabilities{}, 42, "0")
		assert.ErrorIs(t, err, media.ErrIncompatible)
	})
}

func TestDTLSParametersValidate(t *testing.T) {
	valid := media.DTLSParameters{Role: "client", Fingerprints: []media.Fingerprint{{Algorithm: "sha-256", Value: "AB:CD"}}}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, media.DTLSParameters{}.Validate(), media.ErrInvalidParameters)
	assert.ErrorIs(t, media.DTLSParameters{Role: "peer", Fingerprints: valid.Fingerprints}.Validate(), media.ErrInvalidParameters)
	assert.ErrorIs(t, media.DTLSParameters{Fingerprints: []media.Fingerprint{{Algorithm: "md5", Value: "AB"}}}.Validate(), media.ErrInvalidParameters)
}

func TestMediaCreateRouter(t *testing.T) {
	m := media.New(media.Config{}, zap.NewNop())

	t.Run("given ready engine when router is created then expose capabilities", func(t *testing.T) {
		r, err := m.CreateRouter(context.Background(), media.DefaultCodecs())
		require.NoError(t, err)
		assert.NotEmpty(t, r.ID())
		assert.Len(t, r.RTPCapabilities().Codecs, len(media.DefaultCodecs()))
		assert.False(t, r.CanConsume("unknown", r.RTPCapabilities()))
		assert.NoError(t, r.Close())
	})

	t.Run("given closed engine when router is created then return engine fatal", func(t *testing.T) {
		require.NoError(t, m.Close())
		assert.False(t, m.Ready())
		_, err := m.CreateRouter(context.Background(), media.DefaultCodecs())
		assert.ErrorIs(t, err, media.ErrEngineFatal)
	})
}
