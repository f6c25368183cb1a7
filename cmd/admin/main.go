package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/database"
	"portfolio/internal/repository"
)

type dbFlags struct {
	url      string
	host     string
	port     int
	name     string
	user     string
	password string
	sslMode  string
}

func main() {
	_ = godotenv.Load()
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var flags dbFlags

	root := &cobra.Command{
		Use:           "admin",
		Short:         "站点维护工具：创建后台账号、写入默认数据",
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.url, "database-url", "", "完整连接串（可选，默认读 DATABASE_URL）")
	pf.StringVar(&flags.host, "db-host", "", "数据库 Host（可选，默认读 DATABASE_HOST）")
	pf.IntVar(&flags.port, "db-port", 0, "数据库 Port（可选，默认读 DATABASE_PORT）")
	pf.StringVar(&flags.name, "db-name", "", "数据库名（可选，默认读 POSTGRES_DB）")
	pf.StringVar(&flags.user, "db-user", "", "数据库用户（可选，默认读 POSTGRES_USER）")
	pf.StringVar(&flags.password, "db-password", "", "数据库密码（可选，默认读 POSTGRES_PASSWORD）")
	pf.StringVar(&flags.sslMode, "db-sslmode", "", "数据库 SSLMODE（可选，默认读 DATABASE_SSLMODE）")

	root.AddCommand(newCreateUserCommand(&flags), newSeedCommand(&flags))
	return root
}

func newCreateUserCommand(flags *dbFlags) *cobra.Command {
	var username string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "创建后台管理员，随机密码只显示一次",
		RunE: func(cmd *cobra.Command, _ []string) error {
			u := strings.TrimSpace(username)
			if u == "" {
				return errors.New("missing required flag: --username")
			}
			db, err := openDatabase(flags)
			if err != nil {
				return err
			}
			defer database.Close(db)

			password, err := createAdmin(cmd.Context(), repository.NewAdminUserRepository(db), u)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "已创建后台管理员账号：\n")
			fmt.Fprintf(out, "用户名: %s\n", u)
			fmt.Fprintf(out, "初始密码: %s\n", password)
			fmt.Fprintf(out, "提示：该密码仅显示一次，请妥善保存。\n")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "管理员用户名（必填）")
	return cmd
}

func newSeedCommand(flags *dbFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入默认的个人信息与技能（已存在的数据保持不变）",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := openDatabase(flags)
			if err != nil {
				return err
			}
			defer database.Close(db)

			result, err := database.Seed(cmd.Context(), db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "personal info created: %t, skills created: %d\n",
				result.PersonalInfoCreated, result.SkillsCreated)
			return nil
		},
	}
}

func openDatabase(flags *dbFlags) (*gorm.DB, error) {
	dbCfg, err := loadDatabaseConfig(*flags)
	if err != nil {
		return nil, fmt.Errorf("load database config: %w", err)
	}
	db, err := database.InitDatabase(dbCfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, err
	}
	return db, nil
}

// createAdmin 创建管理员并返回明文随机密码。
func createAdmin(ctx context.Context, users *repository.AdminUserRepository, username string) (string, error) {
	switch _, err := users.FindByUsername(ctx, username); {
	case err == nil:
		return "", fmt.Errorf("user %q already exists", username)
	case errors.Is(err, repository.ErrNotFound):
	default:
		return "", fmt.Errorf("query user: %w", err)
	}

	password, err := generateRandomPassword(24)
	if err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return "", err
	}
	if err := users.Create(ctx, &database.AdminUser{Username: username, PasswordHash: hashed}); err != nil {
		return "", err
	}
	return password, nil
}

func generateRandomPassword(bytesLen int) (string, error) {
	if bytesLen <= 0 {
		bytesLen = 24
	}
	buf := make([]byte, bytesLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
