package desensitize

const mask = "******"

var (
	// PasetoTokenRule 令牌脱敏规则，保留版本和用途 (v2.enc.xxx.yyy -> v2.enc.******)
	PasetoTokenRule = MustNewContentRule(
		"paseto_token",
		`\b(v[0-9]+\.(?:auth|enc|seal|sign)\.)[A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)?`,
		"${1}"+mask,
	)

	// BearerRule Authorization 头脱敏规则
	BearerRule = MustNewContentRule(
		"bearer",
		`(?i)(bearer\s+)[^\s"]+`,
		"${1}"+mask,
	)

	// PEMRule PEM 私钥块脱敏规则
	PEMRule = MustNewContentRule(
		"pem_private_key",
		`-----BEGIN ([A-Z ]*)PRIVATE KEY-----[\s\S]*?-----END ([A-Z ]*)PRIVATE KEY-----`,
		"-----BEGIN ${1}PRIVATE KEY-----"+mask+"-----END ${2}PRIVATE KEY-----",
	)

	// KeyRule key 字段脱敏规则
	KeyRule = MustNewFieldRule("key", "key", `.+`, mask)

	// SecretRule secret 字段脱敏规则
	SecretRule = MustNewFieldRule("secret", "secret", `.+`, mask)

	// TokenRule token 字段脱敏规则
	TokenRule = MustNewFieldRule("token", "token", `.+`, mask)

	// FooterRule footer 字段脱敏规则
	FooterRule = MustNewFieldRule("footer", "footer", `.+`, mask)

	// PasswordRule password 字段脱敏规则
	PasswordRule = MustNewFieldRule("password", "password", `.+`, mask)
)

// BuiltinRules 返回所有内置规则，字段规则在内容规则之前应用
func BuiltinRules() []Rule {
	return []Rule{
		KeyRule,
		SecretRule,
		TokenRule,
		FooterRule,
		PasswordRule,
		PasetoTokenRule,
		BearerRule,
		PEMRule,
	}
}
