// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package certificate_test

import (
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/certgen"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/marketd/fixtures"
	"github.com/bitmark-inc/marketd/rpc/certificate"
)

func TestGet(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	cer, key, err := certgen.NewTLSCertPair(
		"certificate test",
		time.Now().Add(time.Hour),
		false,
		nil,
	)
	assert.Nil(t, err, "wrong NewTLSCertPair")

	tlsConfig, fingerprint, err := certificate.Get(
		logger.New("testing"),
		"test",
		string(cer),
		string(key),
	)
	assert.Nil(t, err, "wrong Get")

	pair, _ := tls.X509KeyPair(cer, key)

	assert.Equal(t, sha3.Sum256(pair.Certificate[0]), fingerprint, "wrong fingerprint")
	assert.Equal(t, pair, tlsConfig.Certificates[0], "wrong config")
}

func TestGetRejectsBadKeyPair(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	_, _, err := certificate.Get(
		logger.New("testing"),
		"test",
		"not a certificate",
		"not a key",
	)
	assert.NotNil(t, err, "wrong Get")
}
