// Copyright 2025 Google LLC
// SPDX-License-Identifier: Apache-2.0

// pubctl is a command-line tool for driving and inspecting publications.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/google/pypub/internal/api"
	"github.com/google/pypub/internal/httpx"
	"github.com/google/pypub/internal/taskqueue"
	"github.com/google/pypub/pkg/publish"
	"github.com/google/pypub/pkg/publish/schema"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	apiURL         string
	queuePath      string
	serviceAccount string
	publisherName  string
	repository     string
	project        string
	publicationID  string
	contentDir     string
	serveDir       string
	servePort      int
)

func firestoreStore(ctx context.Context) (*publish.FirestorePublicationStore, error) {
	if project == "" {
		return nil, errors.New("--project is required")
	}
	client, err := firestore.NewClient(ctx, project)
	if err != nil {
		return nil, errors.Wrap(err, "creating Firestore client")
	}
	return publish.NewFirestorePublicationStore(client), nil
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the latest snapshot of a repository",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		req := schema.PublishRequest{Publisher: publisherName, Repository: repository}
		u, err := url.Parse(apiURL)
		if err != nil {
			return errors.Wrap(err, "parsing --api")
		}
		endpoint := u.JoinPath("publish")
		if queuePath != "" {
			q, err := taskqueue.NewQueue(ctx, queuePath, serviceAccount)
			if err != nil {
				return err
			}
			task, err := q.Add(ctx, endpoint.String(), req)
			if err != nil {
				return errors.Wrap(err, "enqueuing publish")
			}
			log.Printf("Enqueued: %s", task.GetName())
			return nil
		}
		stub := api.Stub[schema.PublishRequest, schema.PublishResponse](http.DefaultClient, endpoint)
		resp, err := stub(ctx, req)
		if err != nil {
			return errors.Wrap(err, "calling publish")
		}
		log.Printf("Publication: %s created (repository=%s, version=%d)", resp.PublicationID, resp.Repository, resp.SnapshotVersion)
		return nil
	},
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Fetch a committed publication record",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := firestoreStore(ctx)
		if err != nil {
			return err
		}
		rec, err := store.Get(ctx, publicationID)
		if err != nil {
			return err
		}
		return yaml.NewEncoder(os.Stdout).Encode(rec)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Materialize a committed publication into a servable directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, err := firestoreStore(ctx)
		if err != nil {
			return err
		}
		rec, err := store.Get(ctx, publicationID)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(args[0], 0755); err != nil {
			return errors.Wrapf(err, "creating %s", args[0])
		}
		out := osfs.New(args[0])
		for _, m := range rec.Metadata {
			if err := util.WriteFile(out, m.RelativePath, m.Content, 0644); err != nil {
				return errors.Wrapf(err, "writing %s", m.RelativePath)
			}
		}
		if contentDir != "" {
			content := publish.NewFilesystemContentStore(osfs.New(contentDir))
			if err := publish.MaterializeArtifacts(ctx, out, rec, content); err != nil {
				return err
			}
		}
		log.Printf("Exported publication %s to %s", rec.ID, args[0])
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve an exported publication tree over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		if serveDir == "" {
			return errors.New("--dir is required")
		}
		log.Printf("Serving %s on port %d", serveDir, servePort)
		return http.ListenAndServe(fmt.Sprintf(":%d", servePort), httpx.FSHandler(osfs.New(serveDir)))
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "pubctl",
		Short: "Drive and inspect Simple API publications",
	}
	publishCmd.Flags().StringVar(&apiURL, "api", "", "URL of the publisher service")
	publishCmd.Flags().StringVar(&queuePath, "queue-path", "", "Cloud Tasks queue to enqueue onto instead of calling the service directly")
	publishCmd.Flags().StringVar(&serviceAccount, "service-account", "", "service account the queue authenticates as")
	publishCmd.Flags().StringVar(&publisherName, "publisher", "default", "publisher configuration to use")
	publishCmd.Flags().StringVar(&repository, "repository", "", "repository to publish")
	publishCmd.MarkFlagRequired("api")
	publishCmd.MarkFlagRequired("repository")
	getCmd.Flags().StringVar(&project, "project", "", "GCP project holding publication records")
	getCmd.Flags().StringVar(&publicationID, "publication", "", "publication ID to fetch")
	getCmd.MarkFlagRequired("publication")
	exportCmd.Flags().StringVar(&project, "project", "", "GCP project holding publication records")
	exportCmd.Flags().StringVar(&publicationID, "publication", "", "publication ID to export")
	exportCmd.Flags().StringVar(&contentDir, "content-dir", "", "directory holding artifact content blobs")
	exportCmd.MarkFlagRequired("publication")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "directory to serve")
	serveCmd.Flags().IntVar(&servePort, "port", 8082, "port on which to serve")
	rootCmd.AddCommand(publishCmd, getCmd, exportCmd, serveCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
