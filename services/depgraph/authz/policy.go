// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package authz answers one question: may this actor read that project.
//
// A Policy is an ordered rule list with a default effect. Rules match on
// actor (exact or "*") and project name (path.Match glob); the first
// matching rule wins. Roles listed in admin_roles bypass the rules
// entirely, which is how the default no-auth identity keeps full access
// under a restrictive policy.
package authz

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/depgraph/services/depgraph/component"
)

// Effect is the outcome of a matched rule.
type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

// Policy errors.
var (
	ErrInvalidPolicy = errors.New("invalid authorization policy")
)

// Rule grants or denies one actor pattern access to one project pattern.
type Rule struct {
	// Actor is an exact actor ID, or "*" for any actor.
	Actor string `yaml:"actor"`

	// Project is a path.Match glob over project names.
	Project string `yaml:"project"`

	// Effect is "allow" or "deny".
	Effect Effect `yaml:"effect"`
}

// Policy is an ordered first-match-wins access control list.
type Policy struct {
	// Default applies when no rule matches. Defaults to allow, so an
	// empty policy is wide open; write an explicit deny-all rule set to
	// lock down.
	Default Effect `yaml:"default"`

	// AdminRoles bypass the rule list entirely.
	AdminRoles []string `yaml:"admin_roles"`

	// Rules are evaluated top to bottom; the first match decides.
	Rules []Rule `yaml:"rules"`
}

// AllowAllPolicy returns the policy used when no ACL file is configured.
func AllowAllPolicy() *Policy {
	return &Policy{Default: EffectAllow}
}

// LoadPolicy reads and validates a policy from a YAML file.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy %s: %w", path, err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates policy YAML. Unknown fields are
// rejected so a misspelled effect cannot silently widen access.
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPolicy, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks effects and glob syntax.
func (p *Policy) Validate() error {
	if p.Default == "" {
		p.Default = EffectAllow
	}
	if p.Default != EffectAllow && p.Default != EffectDeny {
		return fmt.Errorf("%w: default effect %q", ErrInvalidPolicy, p.Default)
	}
	for i, rule := range p.Rules {
		if rule.Effect != EffectAllow && rule.Effect != EffectDeny {
			return fmt.Errorf("%w: rule %d effect %q", ErrInvalidPolicy, i, rule.Effect)
		}
		if rule.Actor == "" {
			return fmt.Errorf("%w: rule %d has no actor", ErrInvalidPolicy, i)
		}
		if rule.Project == "" {
			return fmt.Errorf("%w: rule %d has no project pattern", ErrInvalidPolicy, i)
		}
		// path.Match reports malformed patterns the same way regardless
		// of the name matched against.
		if _, err := path.Match(rule.Project, "any"); err != nil {
			return fmt.Errorf("%w: rule %d project pattern %q: %v",
				ErrInvalidPolicy, i, rule.Project, err)
		}
	}
	return nil
}

// CanRead reports whether actor may read the named project.
func (p *Policy) CanRead(actor, projectName string) bool {
	for _, rule := range p.Rules {
		if rule.Actor != "*" && rule.Actor != actor {
			continue
		}
		// Pattern already validated; Match cannot fail here.
		if ok, _ := path.Match(rule.Project, projectName); !ok {
			continue
		}
		return rule.Effect == EffectAllow
	}
	return p.Default == EffectAllow
}

// IsAdmin reports whether any of the roles bypasses the rule list.
func (p *Policy) IsAdmin(roles []string) bool {
	for _, role := range roles {
		for _, admin := range p.AdminRoles {
			if role == admin {
				return true
			}
		}
	}
	return false
}

// ForActor binds the policy to one actor as a permission checker for the
// component calculator. Roles listed in AdminRoles short-circuit to allow.
func (p *Policy) ForActor(actor string, roles []string) component.PermissionChecker {
	if p.IsAdmin(roles) {
		return component.AllowAll{}
	}
	return component.PermissionCheckerFunc(func(project component.Project) bool {
		return p.CanRead(actor, project.Name())
	})
}
