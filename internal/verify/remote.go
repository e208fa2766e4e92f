package verify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/you/dockside-market/internal/domain"
)

// ErrUnavailable is returned for any transport failure or non-2xx
// response; callers fall back to the local engine.
var ErrUnavailable = errors.New("remote verification unavailable")

// RemoteClient talks to an external KYC provider. Its verdict, when
// returned, is used verbatim in place of the local computation.
type RemoteClient struct {
	baseURL string
	hc      *http.Client
}

func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: 15 * time.Second},
	}
}

type remoteRequest struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	Profile any    `json:"profile"`
}

func (c *RemoteClient) Verify(userID string, role domain.Role, profile any) (*domain.VerificationReport, error) {
	body, err := json.Marshal(remoteRequest{UserID: userID, Role: string(role), Profile: profile})
	if err != nil {
		return nil, err
	}
	res, err := c.hc.Post(c.baseURL+"/v1/verify", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, res.StatusCode)
	}
	var report domain.VerificationReport
	if err := json.NewDecoder(res.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUnavailable, err)
	}
	return &report, nil
}
