package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClientOptions(t *testing.T) {
	tests := map[string]struct {
		cfg  Config
		want time.Duration
	}{
		"default timeout": {cfg: Config{Addr: "localhost:6379"}, want: defaultTimeout},
		"custom timeout":  {cfg: Config{Addr: "localhost:6379", Timeout: time.Second}, want: time.Second},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			opts := clientOptions(tt.cfg)
			assert.Equal(t, tt.cfg.Addr, opts.Addr)
			assert.Equal(t, tt.want, opts.DialTimeout)
			assert.Equal(t, tt.want, opts.ReadTimeout)
			assert.Equal(t, tt.want, opts.WriteTimeout)
		})
	}
}
