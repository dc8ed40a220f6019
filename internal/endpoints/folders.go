package endpoints

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
)

const (
	delimiter = "/"

	EntryDirectory = "directory"
	EntryFile      = "file"
)

// Entry is one item of a folder listing. LastModified is set for files only.
type Entry struct {
	Type         string `json:"type"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	LastModified string `json:"lastModified,omitempty"`
}

// FolderListing keeps the "folders" field name the web client reads, even
// though it holds files too.
type FolderListing struct {
	Folders []Entry `json:"folders"`
}

// FoldersList returns the direct children of the "path" query parameter:
// all directories first, then all files, each group in backend order.
func FoldersList(ctx context.Context, request events.APIGatewayV2HTTPRequest, deps Dependencies) (events.APIGatewayV2HTTPResponse, error) {
	prefix := request.QueryStringParameters["path"]

	listing, err := deps.Storage.ListChildren(ctx, prefix, delimiter)
	if err != nil {
		return errorResponse(ctx, deps, "list_folders", err), nil
	}

	entries := make([]Entry, 0, len(listing.CommonPrefixes)+len(listing.Objects))
	for _, p := range listing.CommonPrefixes {
		entries = append(entries, Entry{
			Type: EntryDirectory,
			Name: lastSegment(strings.TrimRight(p, delimiter)),
			Path: p,
		})
	}
	for _, obj := range listing.Objects {
		// Folder markers show up as objects; they are already covered by
		// the common prefixes.
		if strings.HasSuffix(obj.Key, delimiter) {
			continue
		}
		entries = append(entries, Entry{
			Type:         EntryFile,
			Name:         lastSegment(obj.Key),
			Path:         obj.Key,
			LastModified: obj.LastModified.UTC().Format(time.RFC3339),
		})
	}

	return jsonResponse(http.StatusOK, FolderListing{Folders: entries}, deps.Headers), nil
}

func lastSegment(key string) string {
	return key[strings.LastIndex(key, delimiter)+1:]
}
