//go:build nomiddleware

package main

import (
	"errors"

	"github.com/kbukum/httpkit/compat"
	"github.com/kbukum/httpkit/config"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
)

func newMiddlewareClient(*httpclient.Client, config.MiddlewareConfig, *logger.Logger) (*compat.Client, error) {
	return nil, errors.New("middleware.enabled is set but this binary was built with the nomiddleware tag")
}
