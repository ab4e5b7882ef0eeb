// Package transform wraps the JavaScript downlevel step behind a narrow
// interface so the relay only sees "code in, code or error out". The
// production implementation delegates to esbuild; tests substitute fakes.
package transform

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
)

// Transformer 将抓取到的脚本转换为目标方言。实现必须是纯函数：
// 相同输入永远产生相同输出，失败只代表源码本身不可解析。
type Transformer interface {
	Transform(src string) (string, error)
}

// Error 聚合转换器返回的全部诊断信息。
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 0 {
		return "transform failed"
	}
	return fmt.Sprintf("transform failed: %s", strings.Join(e.Messages, "; "))
}

// targets 将配置中的目标方言映射到 esbuild 的枚举。
var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
}

// ESTransformer 基于 esbuild 做语法降级，目标方言在进程启动时固定。
type ESTransformer struct {
	target api.Target
	// es5 目标需要先把 let/const 改写成 var，见 lowerBlockBindings。
	lowerBindings bool
}

// NewESTransformer 根据目标名称构建转换器，未知目标返回错误。
func NewESTransformer(target string) (*ESTransformer, error) {
	esTarget, ok := targets[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		return nil, fmt.Errorf("unsupported transform target: %s", target)
	}
	return &ESTransformer{target: esTarget, lowerBindings: esTarget == api.ES5}, nil
}

// Transform 执行实际的降级转换，esbuild 的诊断会折叠进一个 *Error。
func (t *ESTransformer) Transform(src string) (string, error) {
	if t.lowerBindings {
		src = lowerBlockBindings(src)
	}
	result := api.Transform(src, api.TransformOptions{
		Loader: api.LoaderJS,
		Target: t.target,
	})
	if len(result.Errors) > 0 {
		messages := make([]string, 0, len(result.Errors))
		for _, msg := range result.Errors {
			messages = append(messages, msg.Text)
		}
		return "", &Error{Messages: messages}
	}
	return string(result.Code), nil
}
