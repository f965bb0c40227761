//go:build nomiddleware && !nomultipart

package compat

import "github.com/kbukum/httpkit/httpclient"

func (b *mwBuilder) Multipart(*httpclient.MultipartForm) *mwBuilder { return b }
