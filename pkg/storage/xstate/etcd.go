package xstate

import (
	"context"
	"fmt"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

// DefaultEtcdKeyPrefix etcd 存储默认的 key 前缀。
const DefaultEtcdKeyPrefix = "/xlogkit/"

// etcdKV etcd KV 操作的最小子集，方法签名与 clientv3.KV 一致。
// *clientv3.Client 和 clientv3.KV 都实现了此接口。
type etcdKV interface {
	Get(ctx context.Context, key string, opts ...clientv3.OpOption) (*clientv3.GetResponse, error)
	Put(ctx context.Context, key, val string, opts ...clientv3.OpOption) (*clientv3.PutResponse, error)
}

var _ etcdKV = (*clientv3.Client)(nil)

// EtcdOption etcd 存储配置选项。
type EtcdOption func(*etcdOptions)

type etcdOptions struct {
	keyPrefix string
	timeout   time.Duration
}

// WithEtcdKeyPrefix 设置 key 前缀。
func WithEtcdKeyPrefix(prefix string) EtcdOption {
	return func(o *etcdOptions) {
		o.keyPrefix = prefix
	}
}

// WithEtcdTimeout 设置单次请求超时，<= 0 表示仅使用调用方 ctx。
func WithEtcdTimeout(d time.Duration) EtcdOption {
	return func(o *etcdOptions) {
		o.timeout = d
	}
}

// Etcd 基于 etcd clientv3 的存储实现。
type Etcd struct {
	kv      etcdKV
	prefix  string
	timeout time.Duration
}

var _ Store = (*Etcd)(nil)

// NewEtcd 创建 etcd 存储。kv 通常是 *clientv3.Client，生命周期由调用方管理。
func NewEtcd(kv clientv3.KV, opts ...EtcdOption) (*Etcd, error) {
	if kv == nil {
		return nil, ErrNilClient
	}
	return newEtcd(kv, opts...), nil
}

func newEtcd(kv etcdKV, opts ...EtcdOption) *Etcd {
	o := &etcdOptions{keyPrefix: DefaultEtcdKeyPrefix, timeout: 5 * time.Second}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Etcd{kv: kv, prefix: o.keyPrefix, timeout: o.timeout}
}

func (e *Etcd) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, e.timeout)
}

// Get 实现 Store。
func (e *Etcd) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	resp, err := e.kv.Get(ctx, e.prefix+key)
	if err != nil {
		return "", fmt.Errorf("xstate: etcd get %q: %w", key, err)
	}
	if len(resp.Kvs) == 0 {
		return "", ErrNotFound
	}
	return string(resp.Kvs[0].Value), nil
}

// Put 实现 Store。
func (e *Etcd) Put(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	if _, err := e.kv.Put(ctx, e.prefix+key, value); err != nil {
		return fmt.Errorf("xstate: etcd put %q: %w", key, err)
	}
	return nil
}

// DialEtcd 按端点列表创建 etcd 客户端，调用方负责 Close。
//
// keepalive 参数通过 gRPC DialOptions 设置，空闲连接同样发送心跳。
func DialEtcd(endpoints []string, dialTimeout time.Duration) (*clientv3.Client, error) {
	if len(endpoints) == 0 {
		return nil, ErrNoEndpoints
	}
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}
	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: dialTimeout,
		DialOptions: []grpc.DialOption{
			grpc.WithKeepaliveParams(keepalive.ClientParameters{
				Time:                30 * time.Second,
				Timeout:             10 * time.Second,
				PermitWithoutStream: true,
			}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xstate: dial etcd: %w", err)
	}
	return cli, nil
}
