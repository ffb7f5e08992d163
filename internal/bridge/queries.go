package bridge

import (
	"context"

	"github.com/skaczor/react-native-boostlingo-sdk/internal/engine"
	"github.com/skaczor/react-native-boostlingo-sdk/internal/projection"
)

// Reference data fetches do not touch the session, so they skip callMu and
// may run alongside call commands.

func (b *Bridge) GetCallDictionaries(ctx context.Context) (*projection.CallDictionaries, error) {
	return fetch(b, ctx, engine.Client.CallDictionaries, projection.ProjectCallDictionaries)
}

func (b *Bridge) GetProfile(ctx context.Context) (*projection.Profile, error) {
	return fetch(b, ctx, engine.Client.Profile, projection.ProjectProfile)
}

func (b *Bridge) GetVoiceLanguages(ctx context.Context) ([]projection.Language, error) {
	return fetch(b, ctx, engine.Client.VoiceLanguages, projection.ProjectLanguages)
}

func (b *Bridge) GetVideoLanguages(ctx context.Context) ([]projection.Language, error) {
	return fetch(b, ctx, engine.Client.VideoLanguages, projection.ProjectLanguages)
}

func (b *Bridge) GetCallDetails(ctx context.Context, callID int64) (*projection.CallDetails, error) {
	get := func(c engine.Client, ctx context.Context) (*engine.CallDetails, error) {
		return c.CallDetails(ctx, callID)
	}
	return fetch(b, ctx, get, projection.ProjectCallDetails)
}

func fetch[E, P any](b *Bridge, ctx context.Context, get func(engine.Client, context.Context) (E, error), project func(E) P) (P, error) {
	var zero P
	client, _, gen := b.snapshot()
	if client == nil {
		return zero, errNotInitialized
	}
	v, err := get(client, ctx)
	if !b.isCurrent(gen) {
		return zero, errDisposed
	}
	if err != nil {
		return zero, Normalize(err, KindAPICallFailure)
	}
	return project(v), nil
}
