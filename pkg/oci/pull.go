/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package oci

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	ociv1 "github.com/opencontainers/image-spec/specs-go/v1"
	oras "oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/content/memory"
	"oras.land/oras-go/v2/registry/remote"

	apperrors "github.com/cellgate/cellgate/pkg/errors"
)

// PullOptions configures a notebook pull.
type PullOptions struct {
	// Reference is the parsed oci:// source.
	Reference *Reference
	// PlainHTTP uses HTTP instead of HTTPS for the registry connection.
	PlainHTTP bool
	// InsecureTLS skips TLS certificate verification.
	InsecureTLS bool
}

// Pull fetches a notebook artifact and returns the raw bytes of its
// notebook layer.
func Pull(ctx context.Context, opts PullOptions) ([]byte, error) {
	if opts.Reference == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidRequest, "pull source reference is required")
	}

	repo, err := remote.NewRepository(fmt.Sprintf("%s/%s", opts.Reference.Registry, opts.Reference.Repository))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize remote repository: %w", err)
	}
	repo.PlainHTTP = opts.PlainHTTP
	repo.Client = newAuthClient(opts.PlainHTTP, opts.InsecureTLS)

	raw, err := pullFrom(ctx, repo, opts.Reference.TagOrDefault())
	if err != nil {
		return nil, err
	}

	slog.Debug("notebook pulled from registry",
		"reference", opts.Reference.String(),
		"bytes", len(raw),
	)
	return raw, nil
}

// pullFrom copies the tagged artifact from src into memory and extracts the
// notebook layer. Split from Pull so tests can source a local OCI layout
// store instead of a registry.
func pullFrom(ctx context.Context, src oras.ReadOnlyTarget, tag string) ([]byte, error) {
	store := memory.New()

	manifestDesc, err := oras.Copy(ctx, src, tag, store, tag, oras.DefaultCopyOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch artifact: %w", err)
	}

	manifestBytes, err := content.FetchAll(ctx, store, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest ociv1.Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	layer, err := notebookLayer(manifest)
	if err != nil {
		return nil, err
	}

	raw, err := content.FetchAll(ctx, store, layer)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook layer: %w", err)
	}
	return raw, nil
}

// notebookLayer picks the notebook layer out of an artifact manifest. A
// single-layer artifact is accepted regardless of media type so notebooks
// pushed by generic ORAS tooling still load.
func notebookLayer(manifest ociv1.Manifest) (ociv1.Descriptor, error) {
	for _, layer := range manifest.Layers {
		if layer.MediaType == NotebookMediaType {
			return layer, nil
		}
	}
	if len(manifest.Layers) == 1 {
		return manifest.Layers[0], nil
	}
	return ociv1.Descriptor{}, apperrors.NewWithContext(apperrors.ErrCodeLoadFailed,
		"artifact has no notebook layer",
		map[string]any{"layers": len(manifest.Layers), "artifact_type": manifest.ArtifactType})
}
