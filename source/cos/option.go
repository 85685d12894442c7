//
// Tencent is pleased to support the open source community by making trpc-asset-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-asset-go is licensed under the Apache License Version 2.0.
//
//

package cos

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	cos "github.com/tencentyun/cos-go-sdk-v5"
)

const defaultTimeout = 60 * time.Second

// Option configures a COS source.
type Option func(*options)

type options struct {
	client     client
	httpClient *http.Client

	timeout   time.Duration
	secretID  string
	secretKey string
	prefix    string
}

// WithClient sets the COS client directly.
// This option takes precedence over the credential and HTTP options.
func WithClient(client *cos.Client) Option {
	return func(o *options) {
		o.client = newCosClient(client)
	}
}

// WithHTTPClient sets the HTTP client to use for COS requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithTimeout sets the timeout duration for HTTP requests.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithSecretID sets the COS secret ID.
// If not provided, the COS_SECRETID environment variable is used.
func WithSecretID(secretID string) Option {
	return func(o *options) {
		o.secretID = secretID
	}
}

// WithSecretKey sets the COS secret key.
// If not provided, the COS_SECRETKEY environment variable is used.
func WithSecretKey(secretKey string) Option {
	return func(o *options) {
		o.secretKey = secretKey
	}
}

// WithPrefix stores assets below prefix in the bucket, e.g. "assets/".
// A missing trailing slash is added.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		o.prefix = prefix
	}
}

func buildClient(bucketURL string, o *options) (client, error) {
	if o.client != nil {
		return o.client, nil
	}

	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, fmt.Errorf("cos: parse bucket url %q: %w", bucketURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("cos: bucket url %q must be absolute", bucketURL)
	}
	b := &cos.BaseURL{BucketURL: u}

	httpClient := o.httpClient
	if httpClient != nil {
		if o.timeout > 0 {
			httpClient.Timeout = o.timeout
		}
	} else {
		httpClient = &http.Client{
			Timeout: o.timeout,
			Transport: &cos.AuthorizationTransport{
				SecretID:  o.secretID,
				SecretKey: o.secretKey,
			},
		}
	}
	return newCosClient(cos.NewClient(b, httpClient)), nil
}

func defaultOptions() *options {
	return &options{
		timeout:   defaultTimeout,
		secretID:  os.Getenv("COS_SECRETID"),
		secretKey: os.Getenv("COS_SECRETKEY"),
	}
}
