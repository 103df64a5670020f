// 将导出的分类快照导入本地题库（store 数据源）
//
// 快照由 POST /api/admin/categories/{slug}/export 生成，json 或 yaml 均可。
// 分类按标题重新生成 slug，同名时自动追加 -2、-3。
//
// 用法: go run scripts/seed_store.go exports/landafraedi-xxxx.yaml [more files...]

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"quiz_portal_backend/internal/config"
	"quiz_portal_backend/internal/datasource"
	"quiz_portal_backend/internal/model"
	"quiz_portal_backend/pkg/database"
	"quiz_portal_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("用法: go run scripts/seed_store.go <snapshot>...")
	}

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	store := datasource.NewStoreSource(db)

	ctx := context.Background()
	for _, path := range os.Args[1:] {
		snapshot, err := readSnapshot(path)
		if err != nil {
			log.Fatalf("读取快照 %s 失败: %v", path, err)
		}
		n, err := seed(ctx, store, snapshot)
		if err != nil {
			log.Fatalf("导入 %s 失败: %v", path, err)
		}
		logger.Log.Info("snapshot imported",
			zap.String("file", path),
			zap.String("category", snapshot.Category.Title),
			zap.Int("questions", n),
		)
	}
	log.Println("完成！")
}

func readSnapshot(path string) (model.CategorySnapshot, error) {
	var snapshot model.CategorySnapshot

	data, err := os.ReadFile(path)
	if err != nil {
		return snapshot, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &snapshot)
	case ".json":
		err = json.Unmarshal(data, &snapshot)
	default:
		err = fmt.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
	}
	return snapshot, err
}

func seed(ctx context.Context, store *datasource.StoreSource, snapshot model.CategorySnapshot) (int, error) {
	category, err := store.CreateCategory(ctx, model.CategoryInput{Title: snapshot.Category.Title})
	if err != nil {
		return 0, err
	}

	n := 0
	for _, q := range snapshot.Questions {
		if !q.HasAnswers() {
			continue
		}
		in := model.QuestionInput{Text: q.Text, CategoryID: category.ID}
		for _, a := range q.Answers {
			in.Answers = append(in.Answers, model.AnswerInput{Text: a.Text, Correct: a.Correct})
		}
		if _, err := store.CreateQuestion(ctx, in); err != nil {
			return n, fmt.Errorf("question %s: %w", q.ID, err)
		}
		n++
	}
	return n, nil
}
