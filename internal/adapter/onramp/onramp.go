package onramp

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cardsonbase/cards-tcg-store/internal/core/port"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidWallet     = errors.New("invalid wallet address")
	ErrInvalidPrivateKey = errors.New("invalid onramp private key")
)

var _ port.SessionTokenIssuer = (*Client)(nil)

const tokenTTL = 60 * time.Second

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type tokenRequest struct {
	Addresses []tokenAddress `json:"addresses"`
	Assets    []string       `json:"assets"`
}

type tokenAddress struct {
	Address     string   `json:"address"`
	Blockchains []string `json:"blockchains"`
}

type tokenResponse struct {
	SessionToken string `json:"sessionToken"`
}

// A Client exchanges a short-lived EdDSA bearer token for a vendor
// onramp session token bound to the buyer's wallet.
type Client struct {
	opPrefix   string
	client     httpDoer
	keyName    string
	privateKey ed25519.PrivateKey
	tokenURL   string
	blockchain string
	assets     []string
	now        func() time.Time
}

// New parses the base64 Ed25519 private key and returns a ready client.
//
// The vendor encodes the seed and public key as one 64-byte blob.
func New(keyName, privateKeyB64, tokenURL string) (*Client, error) {
	const op = "onramp.New"

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(privateKeyB64))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidPrivateKey, err)
	}

	var key ed25519.PrivateKey
	switch len(raw) {
	case ed25519.PrivateKeySize:
		key = ed25519.PrivateKey(raw)
	case ed25519.SeedSize:
		key = ed25519.NewKeyFromSeed(raw)
	default:
		return nil, fmt.Errorf(
			"%s: %w: unexpected key length %d", op, ErrInvalidPrivateKey, len(raw),
		)
	}

	return &Client{
		opPrefix:   "OnrampClient",
		client:     &http.Client{Timeout: 10 * time.Second},
		keyName:    keyName,
		privateKey: key,
		tokenURL:   tokenURL,
		blockchain: "base",
		assets:     []string{"ETH", "USDC"},
		now:        time.Now,
	}, nil
}

func (c *Client) SessionToken(
	ctx context.Context, walletAddress string,
) (string, error) {
	const op = "SessionToken"

	if !strings.HasPrefix(walletAddress, "0x") {
		return "", c.opErr(op, ErrInvalidWallet)
	}

	bearer, err := c.signBearer()
	if err != nil {
		return "", c.opErr(op, err)
	}

	token, err := c.requestSessionToken(ctx, bearer, walletAddress)
	if err != nil {
		return "", c.opErr(op, err)
	}
	return token, nil
}

func (c *Client) signBearer() (string, error) {
	const op = "signBearer"

	now := c.now()
	claims := jwt.MapClaims{
		"iss": c.keyName,
		"nbf": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"aud": c.tokenURL,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = c.keyName

	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", c.opErr(op, err)
	}
	return signed, nil
}

func (c *Client) requestSessionToken(
	ctx context.Context, bearer, walletAddress string,
) (string, error) {
	const op = "requestSessionToken"

	body, err := json.Marshal(tokenRequest{
		Addresses: []tokenAddress{{
			Address:     walletAddress,
			Blockchains: []string{c.blockchain},
		}},
		Assets: c.assets,
	})
	if err != nil {
		return "", c.opErr(op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.tokenURL, bytes.NewReader(body),
	)
	if err != nil {
		return "", c.opErr(op, err)
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", c.opErr(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.opErr(
			op, fmt.Errorf("vendor returned status %d", resp.StatusCode),
		)
	}

	var res tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", c.opErr(op, err)
	}

	if res.SessionToken == "" {
		return "", c.opErr(op, errors.New("empty session token"))
	}
	return res.SessionToken, nil
}

func (c *Client) opErr(op string, err error) error {
	return fmt.Errorf("%s.%s: %w", c.opPrefix, op, err)
}
