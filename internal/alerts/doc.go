// Package alerts evaluates classification-based alert rules against every
// generated reading and delivers webhook notifications when rules fire or
// resolve. Rules match a parameter's status ("ph == danger",
// "turbidity >= warning"), optionally scoped to one site, with a per-rule
// cooldown. Webhooks are delivered to Slack, Teams, or generic HTTP targets.
package alerts
