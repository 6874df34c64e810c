// Package aur queries the Arch User Repository over its RPC interface.
package aur

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aurumpkg/aurum/pkg/errors"
	"github.com/aurumpkg/aurum/pkg/model"
)

// DefaultBaseURL is the public AUR instance.
const DefaultBaseURL = "https://aur.archlinux.org"

const (
	infoPath  = "/rpc/v5/info"
	userAgent = "aurum/1.0"
)

// ErrRPC is returned when the RPC endpoint answers with an error payload.
var ErrRPC = fmt.Errorf("aur rpc rejected the request")

// Client is an AUR RPC client. Info batches are sent as a single HTTP
// round trip; any transport or payload error fails the whole batch.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client against the given AUR instance. An empty
// baseURL selects DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Record is one AUR package as returned by the RPC info endpoint.
type Record struct {
	Name        string   `json:"Name"`
	PackageBase string   `json:"PackageBase"`
	Version     string   `json:"Version"`
	Description string   `json:"Description"`
	URLPath     string   `json:"URLPath"`
	Depends     []string `json:"Depends"`
	MakeDepends []string `json:"MakeDepends"`
	OutOfDate   *int64   `json:"OutOfDate"`
	Maintainer  *string  `json:"Maintainer"`
	NumVotes    int      `json:"NumVotes"`
	Popularity  float64  `json:"Popularity"`
}

type rpcResponse struct {
	Version     int      `json:"version"`
	Type        string   `json:"type"`
	ResultCount int      `json:"resultcount"`
	Results     []Record `json:"results"`
	Error       string   `json:"error"`
}

// Info looks up names with one batched RPC info request. Names unknown to
// the AUR are simply absent from the result; they are not an error.
func (c *Client) Info(ctx context.Context, names []model.PkgName) ([]Record, error) {
	if len(names) == 0 {
		return nil, errors.Wrap(errors.ErrNoPackagesRequested, "aur info")
	}

	query := url.Values{}
	for _, name := range names {
		query.Add("arg[]", string(name))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+infoPath+"?"+query.Encode(), http.NoBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "aur info request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode aur response")
	}
	if payload.Type == "error" {
		return nil, errors.Wrapf(ErrRPC, "%s", payload.Error)
	}

	return payload.Results, nil
}

// SnapshotURL resolves a record's relative URLPath against the instance
// base URL.
func (c *Client) SnapshotURL(urlPath string) string {
	return c.baseURL + urlPath
}

// Buildable converts a record into its package form, parsing dependency
// strings and resolving the snapshot URL.
func (c *Client) Buildable(rec Record) model.Buildable {
	return model.Buildable{
		Name:        model.PkgName(rec.Name),
		Base:        model.PkgName(rec.PackageBase),
		Version:     rec.Version,
		SnapshotURL: c.SnapshotURL(rec.URLPath),
		Depends:     parseDeps(rec.Depends),
		MakeDepends: parseDeps(rec.MakeDepends),
		Description: rec.Description,
	}
}

func parseDeps(raw []string) []model.Dep {
	if len(raw) == 0 {
		return nil
	}
	out := make([]model.Dep, len(raw))
	for i, s := range raw {
		out[i] = model.ParseDep(s)
	}
	return out
}
