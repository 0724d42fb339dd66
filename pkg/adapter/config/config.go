// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the libweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations should be passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items), so they may be accumulated and validated in the
// relevant end-component such as a UseCase instance. This design
// decision causes a bit of redundancy in favor of a defensive
// solution.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/analluvias/library-api/pkg/adapter/config/settings"
	"github.com/analluvias/library-api/pkg/adapter/db/postgres"
	"github.com/analluvias/library-api/pkg/adapter/mail"
	"github.com/analluvias/library-api/pkg/adapter/restful/gin"
	"github.com/analluvias/library-api/pkg/core/notifier"
	"github.com/analluvias/library-api/pkg/core/usecase/overdueuc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Mail     Mail     // SMTP notifier settings
	Overdue  Overdue  // overdue scan and notification settings
}

// Database contains the database related configuration settings.
type Database struct {
	Host     string // domain name or IP address of the DBMS server
	Port     int    // port number of the DBMS server
	Name     string // database name, like libweb
	User     string // connecting role name
	Password string // password of the connecting role

	// ConnectTimeout bounds the initial connection establishment;
	// a nil value leaves the timeout to the driver defaults.
	ConnectTimeout *settings.Duration `yaml:"connect-timeout"`
}

// Gin contains the Gin-Gonic instantiation settings.
type Gin struct {
	Logger   *bool // Whether to register the gin.Logger() middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware
}

// Mail contains the SMTP notifier settings.
type Mail struct {
	Host     string // domain name or IP address of the SMTP server
	Port     int    // port number of the SMTP server
	Username string // optional SMTP authentication username
	Password string // optional SMTP authentication password
	From     string // sender address of notification messages
	Subject  string // subject line of notification messages
}

// Overdue contains the overdue scan and notification settings.
type Overdue struct {
	// GraceDays is the number of days a book may be held before its
	// loan counts as overdue. A nil value selects the use case
	// default.
	GraceDays *int `yaml:"grace-days"`

	// Cron is the recurring schedule of the overdue scan in the
	// standard 5-field cron format. An empty value selects a daily
	// run at midnight.
	Cron string

	// Message is the plain text body which is sent to the overdue
	// loan customers. An empty value selects the use case default.
	Message string

	// NotifyEmpty asks the scan to invoke the notifier with an empty
	// recipient batch when no loan is overdue, instead of skipping
	// the notifier for that run.
	NotifyEmpty bool `yaml:"notify-empty"`
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return c, nil
}

// Validate checks the mandatory settings and fills the normalizable
// optional settings with their default values.
func (c *Config) Validate() error {
	switch {
	case c.Database.Host == "":
		return errors.New("database.host is required")
	case c.Database.Port <= 0 || c.Database.Port > 65535:
		return fmt.Errorf("database.port (%d) is invalid", c.Database.Port)
	case c.Database.Name == "":
		return errors.New("database.name is required")
	case c.Database.User == "":
		return errors.New("database.user is required")
	}
	if c.Mail.Host != "" {
		switch {
		case c.Mail.Port <= 0 || c.Mail.Port > 65535:
			return fmt.Errorf("mail.port (%d) is invalid", c.Mail.Port)
		case c.Mail.From == "":
			return errors.New("mail.from is required")
		}
	}
	if c.Mail.Subject == "" {
		c.Mail.Subject = "Overdue book loan"
	}
	if c.Overdue.Cron == "" {
		c.Overdue.Cron = "0 0 * * *" // daily at midnight
	}
	if c.Overdue.GraceDays != nil && *c.Overdue.GraceDays <= 0 {
		return fmt.Errorf(
			"overdue.grace-days (%d) is not positive",
			*c.Overdue.GraceDays,
		)
	}
	return nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	if t := c.Database.ConnectTimeout; t != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*t))
		defer cancel()
	}
	p, err := postgres.NewPool(ctx, c.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	return p, nil
}

// URL returns the connection URL of the configured database.
func (d Database) URL() string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   d.Host + ":" + strconv.Itoa(d.Port),
		Path:   "/" + d.Name,
	}
	return u.String()
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if g.Logger == nil || *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if g.Recovery == nil || *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// NewNotifier instantiates the SMTP notifier based on the `m`
// settings.
func (m Mail) NewNotifier() (notifier.Notifier, error) {
	return mail.New(
		m.Host, m.Port, m.Username, m.Password, m.From, m.Subject,
	)
}

// UseCaseOptions converts the overdue settings to the functional
// options which may be passed to the overdueuc.New function.
func (o Overdue) UseCaseOptions() []overdueuc.Option {
	var opts []overdueuc.Option
	if o.GraceDays != nil {
		opts = append(opts, overdueuc.WithGraceDays(*o.GraceDays))
	}
	if o.Message != "" {
		opts = append(opts, overdueuc.WithMessage(o.Message))
	}
	if o.NotifyEmpty {
		opts = append(opts, overdueuc.WithNotifyEmpty())
	}
	return opts
}
