package host

import (
	"context"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/bridge"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
)

type methodFunc func(ctx context.Context, c *connection, params map[string]any) (any, error)

func (s *Server) methodTable() map[string]methodFunc {
	b := s.bridge
	return map[string]methodFunc{
		"initialize": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			opts, err := bridge.DecodeInitOptions(p)
			if err != nil {
				return nil, err
			}
			return nil, b.Initialize(ctx, opts)
		},
		"dispose": func(context.Context, *connection, map[string]any) (any, error) {
			b.Dispose()
			return nil, nil
		},
		"startObserving": func(_ context.Context, c *connection, _ map[string]any) (any, error) {
			s.observe(c)
			return nil, nil
		},
		"stopObserving": func(_ context.Context, c *connection, _ map[string]any) (any, error) {
			s.unobserve(c)
			return nil, nil
		},
		"supportedEvents": func(context.Context, *connection, map[string]any) (any, error) {
			return bridge.EventNames, nil
		},
		"getRegions": func(context.Context, *connection, map[string]any) (any, error) {
			return b.Regions(), nil
		},
		"getVersion": func(context.Context, *connection, map[string]any) (any, error) {
			return b.Version(), nil
		},
		"getCurrentCall": func(context.Context, *connection, map[string]any) (any, error) {
			return b.CurrentCall(), nil
		},
		"placeVoiceCall": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			req, err := bridge.DecodeCallRequest(p)
			if err != nil {
				return nil, err
			}
			return b.PlaceVoiceCall(ctx, req)
		},
		"placeVideoCall": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			req, err := bridge.DecodeCallRequest(p)
			if err != nil {
				return nil, err
			}
			var local engine.Renderer
			if h, ok := p["localRenderer"].(string); ok && h != "" {
				local = h
			}
			return b.PlaceVideoCall(ctx, req, local)
		},
		"hangUp": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			return nil, b.HangUp(ctx)
		},
		"muteCall": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			muted, err := bridge.DecodeFlag(p, "muted")
			if err != nil {
				return nil, err
			}
			b.MuteCall(ctx, muted)
			return nil, nil
		},
		"enableVideo": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			enabled, err := bridge.DecodeFlag(p, "enabled")
			if err != nil {
				return nil, err
			}
			b.EnableVideo(ctx, enabled)
			return nil, nil
		},
		"flipCamera": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			b.FlipCamera(ctx)
			return nil, nil
		},
		"toggleAudioRoute": func(_ context.Context, _ *connection, p map[string]any) (any, error) {
			toSpeaker, err := bridge.DecodeFlag(p, "toSpeaker")
			if err != nil {
				return nil, err
			}
			b.ToggleAudioRoute(toSpeaker)
			return nil, nil
		},
		"dialThirdParty": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			return nil, b.DialThirdParty(ctx, bridge.DecodeThirdPartyParams(p).Phone)
		},
		"hangUpThirdParty": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			return nil, b.HangUpThirdParty(ctx, bridge.DecodeThirdPartyParams(p).Identity)
		},
		"muteThirdParty": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			tp := bridge.DecodeThirdPartyParams(p)
			return nil, b.MuteThirdParty(ctx, tp.Identity, tp.Mute)
		},
		"sendChatMessage": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			text, err := bridge.DecodeChatParams(p)
			if err != nil {
				return nil, err
			}
			return b.SendChatMessage(ctx, text)
		},
		"getCallDictionaries": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			return b.GetCallDictionaries(ctx)
		},
		"getProfile": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			return b.GetProfile(ctx)
		},
		"getVoiceLanguages": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			return b.GetVoiceLanguages(ctx)
		},
		"getVideoLanguages": func(ctx context.Context, _ *connection, _ map[string]any) (any, error) {
			return b.GetVideoLanguages(ctx)
		},
		"getCallDetails": func(ctx context.Context, _ *connection, p map[string]any) (any, error) {
			callID, err := bridge.DecodeCallDetailsParams(p)
			if err != nil {
				return nil, err
			}
			return b.GetCallDetails(ctx, callID)
		},
		"attachLocalRenderer": func(_ context.Context, _ *connection, p map[string]any) (any, error) {
			rp, err := bridge.DecodeLocalRendererParams(p)
			if err != nil {
				return nil, err
			}
			b.AttachLocalRenderer(rp.Handle)
			return nil, nil
		},
		"attachRemoteRenderer": func(_ context.Context, _ *connection, p map[string]any) (any, error) {
			rp, err := bridge.DecodeRemoteRendererParams(p)
			if err != nil {
				return nil, err
			}
			b.AttachRemoteRenderer(rp.Handle, rp.Identity)
			return nil, nil
		},
	}
}
