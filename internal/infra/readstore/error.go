package readstore

import (
	"enrollment-core/internal/infra"
	"enrollment-core/internal/pkg/pgconv"
)

func classifyReadErr(msg string, err error) error {
	if pgconv.IsNoRows(err) {
		return infra.NewRepoErr(infra.KindNotFound, msg, err)
	}
	return infra.NewRepoErr(infra.KindDBFailure, msg, err)
}
