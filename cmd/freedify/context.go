package main

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"freedify/internal/apiclient"
	"freedify/internal/config"
)

type commandContext struct {
	addressFlag *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		configFlag:  configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) address() string {
	if c.addressFlag != nil && strings.TrimSpace(*c.addressFlag) != "" {
		return strings.TrimSpace(*c.addressFlag)
	}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil {
		return cfg.Paths.APIBind
	}
	return "127.0.0.1:8000"
}

func (c *commandContext) client() *apiclient.Client {
	opts := []apiclient.Option{}
	if cfg, err := c.ensureConfig(); err == nil && cfg != nil && cfg.Paths.APIToken != "" {
		opts = append(opts, apiclient.WithToken(cfg.Paths.APIToken))
	}
	return apiclient.New(c.address(), opts...)
}

func (c *commandContext) withClient(fn func(*apiclient.Client) error) error {
	err := fn(c.client())
	if errors.Is(err, apiclient.ErrDaemonNotRunning) {
		return fmt.Errorf("daemon not reachable at %s; start it with `freedifyd`", c.address())
	}
	return err
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
