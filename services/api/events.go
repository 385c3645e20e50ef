package api

import (
	"context"

	"sitewrap/services/generator"
)

// publishBuildFinished emits a build-completed event for downstream
// consumers. Fire and forget: event delivery never affects the request.
func (a *API) publishBuildFinished(ctx context.Context, artifact generator.Artifact) {
	if a.store.Bus == nil {
		return
	}
	if err := a.store.Bus.Publish(ctx, buildsFinishedTopic, artifact); err != nil {
		a.logf("WARN publish build event for %s: %v", artifact.BuildID, err)
	}
}
