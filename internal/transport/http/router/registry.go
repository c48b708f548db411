package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule 在 /api 分组下挂载自己的路由
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// 可选：实现该接口控制挂载顺序（数值越小越先挂），默认 100
type prioritizer interface{ Priority() int }

// Registry 每个 engine 一份，不用包级全局变量
type Registry struct {
	mods []APIModule
}

func NewRegistry(mods ...APIModule) *Registry {
	r := &Registry{}
	for _, m := range mods {
		r.Register(m)
	}
	return r
}

func (r *Registry) Register(m APIModule) { r.mods = append(r.mods, m) }

func (r *Registry) MountAll(api *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(api)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
