package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yhubail/graphql/internal/config"
	"github.com/yhubail/graphql/internal/model"
	"github.com/yhubail/graphql/internal/util"
	"github.com/yhubail/graphql/pkg/monitoring"

	"github.com/machinebox/graphql"
)

// profileQuery 一次取回完整档案：交易日志按 createdAt 升序，
// 时间线依赖该排序（聚合层不再重排）。
const profileQuery = `
query profile($xpEvent: Int!) {
  user {
    login
    email
    firstName
    lastName
    campus
    totalUp
    totalDown
    auditRatio
    xps: transactions(
      where: { type: { _eq: "xp" }, originEventId: { _eq: $xpEvent } }
    ) {
      amount
      path
      originEventId
    }
    transactions(
      where: { type: { _in: ["xp", "level", "up", "down"] } }
      order_by: { createdAt: asc }
    ) {
      type
      amount
      createdAt
      path
      originEventId
    }
    audits(where: { auditedAt: { _is_null: false } }) {
      grade
      auditedAt
    }
    progressesByPath: progresses(order_by: { path: asc }) {
      path
      succeeded
      count
    }
  }
}`

// ProfileRepository 对上游GraphQL平台的只读访问。
// 令牌逐调用显式传入，仓库本身不读取任何全局状态。
type ProfileRepository struct {
	Cfg        *config.UpstreamConfig
	client     *graphql.Client
	httpClient *http.Client
}

func NewProfileRepository(cfg *config.UpstreamConfig) *ProfileRepository {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &ProfileRepository{
		Cfg:        cfg,
		client:     graphql.NewClient(cfg.BaseURL+cfg.GraphQLPath, graphql.WithHTTPClient(httpClient)),
		httpClient: httpClient,
	}
}

// Signin 以Basic认证换取不透明Bearer令牌。上游返回的是JSON编码的裸字符串。
func (r *ProfileRepository) Signin(ctx context.Context, identifier, password string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Cfg.BaseURL+r.Cfg.SigninPath, nil)
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(identifier, password)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errors.New("invalid credentials")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signin failed: upstream returned %d", resp.StatusCode)
	}

	var token string
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("signin failed: %w", err)
	}
	if token == "" {
		return "", util.ErrEmptyToken
	}
	return token, nil
}

// FetchProfile 执行档案查询。上游空结果集（无user记录）返回 ErrMissingUser，
// 令牌被上游拒绝返回 ErrUnauthenticated，调用方据此触发重新认证。
func (r *ProfileRepository) FetchProfile(ctx context.Context, token string) (*model.RawProfile, error) {
	if token == "" {
		return nil, util.ErrNoSession
	}

	req := graphql.NewRequest(profileQuery)
	req.Var("xpEvent", r.Cfg.XPOriginEventID)
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	var resp struct {
		User []model.UserRecord `json:"user"`
	}
	err := r.client.Run(ctx, req, &resp)
	monitoring.ObserveFetch("profile", start, err)
	if err != nil {
		if isAuthError(err) {
			return nil, util.ErrUnauthenticated
		}
		return nil, err
	}

	if len(resp.User) == 0 {
		return nil, util.ErrMissingUser
	}

	user := resp.User[0]
	return &model.RawProfile{User: &user}, nil
}

// isAuthError 上游通过GraphQL错误文本报告JWT失效，没有结构化错误码可用
func isAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "jwt") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "401") ||
		strings.Contains(msg, "access denied")
}
