package postgres_adapter

import (
	"fmt"
	"strings"

	"github.com/furqan-y-khan/workify/internal/core/domain"
)

type queryBuilder struct {
	conditions []string
	args       []interface{}
	argId      int
}

func newQueryBuilder(base ...string) *queryBuilder {
	return &queryBuilder{
		argId:      1,
		conditions: append([]string(nil), base...),
		args:       make([]interface{}, 0),
	}
}

// placeholder регистрирует аргумент и возвращает его номер вида $N
func (qb *queryBuilder) placeholder(arg interface{}) string {
	qb.args = append(qb.args, arg)
	p := fmt.Sprintf("$%d", qb.argId)
	qb.argId++
	return p
}

// addCondition: condition содержит ровно один %s под плейсхолдер
func (qb *queryBuilder) addCondition(condition string, arg interface{}) {
	qb.conditions = append(qb.conditions, fmt.Sprintf(condition, qb.placeholder(arg)))
}

func (qb *queryBuilder) build() (string, []interface{}) {
	if len(qb.conditions) == 0 {
		return "", qb.args
	}
	return "WHERE " + strings.Join(qb.conditions, " AND "), qb.args
}

// prefixPatterns превращает префиксы geohash в шаблоны LIKE
func prefixPatterns(prefixes []string) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		if p == "" {
			continue
		}
		out = append(out, p+"%")
	}
	return out
}

// jobHintsWhere строит WHERE для выборки вакансий. Условия только сужают выборку
// и никогда не строже фильтра ядра.
func jobHintsWhere(hints domain.CandidateHints) (string, []interface{}) {
	qb := newQueryBuilder()

	if hints.OnlyOpen {
		qb.addCondition("j.status = %s", domain.JobStatusOpen)
	}
	if hints.Category != "" {
		qb.addCondition("j.category = %s", hints.Category)
	}
	if hints.JobType != "" {
		qb.addCondition("j.job_type = %s", hints.JobType)
	}
	if hints.PaymentType != "" {
		qb.addCondition("j.payment_type = %s", hints.PaymentType)
	}

	if patterns := prefixPatterns(hints.GeohashPrefixes); len(patterns) > 0 {
		if hints.IncludeRemote {
			qb.addCondition("(j.geohash LIKE ANY(%s) OR j.is_remote)", patterns)
		} else {
			qb.addCondition("j.geohash LIKE ANY(%s)", patterns)
		}
	} else if hints.PostalCode != "" {
		qb.addCondition("upper(btrim(j.postal_code)) = %s", domain.NormalizePostalCode(hints.PostalCode))
	}

	return qb.build()
}

// userHintsWhere строит WHERE для выборки пользователей
func userHintsWhere(hints domain.CandidateHints) (string, []interface{}) {
	qb := newQueryBuilder()

	if hints.TargetRole != "" {
		qb.addCondition("u.role = %s", string(hints.TargetRole))
	}
	if hints.ExcludeUserID != nil {
		qb.addCondition("u.id <> %s", *hints.ExcludeUserID)
	}
	if hints.Category != "" {
		qb.addCondition("u.trade_category = %s", hints.Category)
	}
	if patterns := prefixPatterns(hints.GeohashPrefixes); len(patterns) > 0 {
		qb.addCondition("u.geohash LIKE ANY(%s)", patterns)
	} else if hints.PostalCode != "" {
		qb.addCondition("upper(btrim(u.postal_code)) = %s", domain.NormalizePostalCode(hints.PostalCode))
	}

	return qb.build()
}
