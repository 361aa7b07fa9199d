package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// fileConfig mirrors Config for HCL decoding. Every block and attribute is
// optional; unset values keep whatever was configured before.
type fileConfig struct {
	Server *serverBlock `hcl:"server,block"`
	LLM    *llmBlock    `hcl:"llm,block"`
	Logo   *logoBlock   `hcl:"logo,block"`
	Render *renderBlock `hcl:"render,block"`
	Mongo  *mongoBlock  `hcl:"mongo,block"`
	Log    *logBlock    `hcl:"log,block"`
	Output *outputBlock `hcl:"output,block"`
}

type serverBlock struct {
	Host           *string `hcl:"host,optional"`
	Port           *int    `hcl:"port,optional"`
	MetricsAddr    *string `hcl:"metrics_addr,optional"`
	ReadTimeout    *string `hcl:"read_timeout,optional"`
	WriteTimeout   *string `hcl:"write_timeout,optional"`
	RequestTimeout *string `hcl:"request_timeout,optional"`
}

type llmBlock struct {
	Model   *string `hcl:"model,optional"`
	Timeout *string `hcl:"timeout,optional"`
}

type logoBlock struct {
	BaseURL          *string `hcl:"base_url,optional"`
	Token            *string `hcl:"token,optional"`
	Size             *int    `hcl:"size,optional"`
	Format           *string `hcl:"format,optional"`
	Theme            *string `hcl:"theme,optional"`
	PlaceholderBytes *int64  `hcl:"placeholder_bytes,optional"`
	Timeout          *string `hcl:"timeout,optional"`
}

type renderBlock struct {
	TemplatePath *string `hcl:"template_path,optional"`
	MascotPath   *string `hcl:"mascot_path,optional"`
	ChromePath   *string `hcl:"chrome_path,optional"`
	NoSandbox    *bool   `hcl:"no_sandbox,optional"`
	IdleTimeout  *string `hcl:"idle_timeout,optional"`
}

type mongoBlock struct {
	URI      *string `hcl:"uri,optional"`
	Database *string `hcl:"database,optional"`
	Timeout  *string `hcl:"timeout,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type outputBlock struct {
	Dir *string `hcl:"dir,optional"`
}

// LoadFile overlays an .hcl (or .json) file onto c. The API key is never
// read from the file.
func (c *Config) LoadFile(path string) error {
	var fc fileConfig
	if err := hclsimple.DecodeFile(path, nil, &fc); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	d := durationSetter{}
	if b := fc.Server; b != nil {
		setString(&c.Server.Host, b.Host)
		setValue(&c.Server.Port, b.Port)
		setString(&c.Server.MetricsAddr, b.MetricsAddr)
		d.set(&c.Server.ReadTimeout, "server.read_timeout", b.ReadTimeout)
		d.set(&c.Server.WriteTimeout, "server.write_timeout", b.WriteTimeout)
		d.set(&c.Server.RequestTimeout, "server.request_timeout", b.RequestTimeout)
	}
	if b := fc.LLM; b != nil {
		setString(&c.LLM.Model, b.Model)
		d.set(&c.LLM.Timeout, "llm.timeout", b.Timeout)
	}
	if b := fc.Logo; b != nil {
		setString(&c.Logo.BaseURL, b.BaseURL)
		setString(&c.Logo.Token, b.Token)
		setValue(&c.Logo.Size, b.Size)
		setString(&c.Logo.Format, b.Format)
		setString(&c.Logo.Theme, b.Theme)
		setValue(&c.Logo.PlaceholderBytes, b.PlaceholderBytes)
		d.set(&c.Logo.Timeout, "logo.timeout", b.Timeout)
	}
	if b := fc.Render; b != nil {
		setString(&c.Render.TemplatePath, b.TemplatePath)
		setString(&c.Render.MascotPath, b.MascotPath)
		setString(&c.Render.ChromePath, b.ChromePath)
		setValue(&c.Render.NoSandbox, b.NoSandbox)
		d.set(&c.Render.IdleTimeout, "render.idle_timeout", b.IdleTimeout)
	}
	if b := fc.Mongo; b != nil {
		setString(&c.Mongo.URI, b.URI)
		setString(&c.Mongo.Database, b.Database)
		d.set(&c.Mongo.Timeout, "mongo.timeout", b.Timeout)
	}
	if b := fc.Log; b != nil {
		setString(&c.Log.Level, b.Level)
		setString(&c.Log.Format, b.Format)
	}
	if b := fc.Output; b != nil {
		setString(&c.Output.Dir, b.Dir)
	}

	if d.err != nil {
		return fmt.Errorf("decode config %s: %w", path, d.err)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

type durationSetter struct {
	err error
}

func (s *durationSetter) set(dst *time.Duration, name string, v *string) {
	if v == nil || s.err != nil {
		return
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		s.err = fmt.Errorf("%s: %w", name, err)
		return
	}
	*dst = d
}
