package queue

import (
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/config"
	"github.com/Y4Clab/WFP-TRACKER-SYSTEM/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	DefaultQueue  = constants.QueueDefault
	CriticalQueue = constants.QueueCritical

	allocationAuditTimeout  = 30 * time.Second
	allocationAuditRetryMax = 3
)

// Client 投递分配对账任务，未启用队列时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(buildRedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueAllocationAudit 提交后复核涉及的货物明细，进入高优先级队列
func (c *Client) EnqueueAllocationAudit(payload AllocationAuditPayload, opts ...asynq.Option) error {
	if !c.Enabled() || len(payload.CargoItemIDs) == 0 {
		return nil
	}
	task, err := NewAllocationAuditTask(payload)
	if err != nil {
		return err
	}
	options := []asynq.Option{
		asynq.Queue(CriticalQueue),
		asynq.MaxRetry(allocationAuditRetryMax),
		asynq.Timeout(allocationAuditTimeout),
	}
	_, err = c.client.Enqueue(task, append(options, opts...)...)
	return err
}

// BuildServerConfig 生成 worker 端配置，critical 队列权重高于 default
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	serverCfg := asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{DefaultQueue: 1, CriticalQueue: 2},
	}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			serverCfg.Concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			serverCfg.Queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), serverCfg
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	host, port := "127.0.0.1", 6379
	opt := asynq.RedisClientOpt{}
	if cfg != nil {
		if trimmed := strings.TrimSpace(cfg.Host); trimmed != "" {
			host = trimmed
		}
		if cfg.Port > 0 {
			port = cfg.Port
		}
		opt.Password = cfg.Password
		opt.DB = cfg.DB
	}
	opt.Addr = net.JoinHostPort(host, strconv.Itoa(port))
	return opt
}
