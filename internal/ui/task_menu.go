package ui

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"taskman/internal/apperr"
	"taskman/internal/model"
)

func (u *ConsoleUI) taskMenu() {
	for {
		u.printf("\n%s\n", strings.Repeat("-", 50))
		u.printf("  УПРАВЛЕНИЕ ЗАДАЧАМИ\n")
		u.printf("%s\n", strings.Repeat("-", 50))
		u.printf("\n1. Добавить задачу\n")
		u.printf("2. Просмотреть задачи\n")
		u.printf("3. Отметить задачу выполненной\n")
		u.printf("4. Удалить задачу\n")
		u.printf("5. Поиск задачи\n")
		u.printf("6. Редактировать задачу\n")
		u.printf("7. Очистить все задачи\n")
		u.printf("0. Назад\n")

		choice, ok := u.prompt("\nВыберите действие: ")
		if !ok || choice == "0" {
			return
		}
		switch choice {
		case "1":
			u.addTaskFlow()
		case "2":
			u.viewTasksFlow()
		case "3":
			u.markTaskDoneFlow()
		case "4":
			u.deleteTaskFlow()
		case "5":
			u.searchTaskFlow()
		case "6":
			u.editTaskFlow()
		case "7":
			u.clearTasksFlow()
		default:
			u.printf("\nНеверный выбор!\n")
		}
	}
}

func (u *ConsoleUI) addTaskFlow() {
	u.printf("\n--- Добавление задачи ---\n")

	day, ok := u.selectDay()
	if !ok {
		return
	}
	title, ok := u.prompt("Введите название задачи: ")
	if !ok {
		return
	}
	if title == "" {
		u.printf("Название не может быть пустым!\n")
		return
	}
	description, ok := u.prompt("Введите описание (Enter для пропуска): ")
	if !ok {
		return
	}

	task, err := model.NewTask(title, description)
	if err != nil {
		u.printf("\nОшибка: %v\n", err)
		return
	}
	if err := u.tasks.AddTask(day, task); err != nil {
		if errors.Is(err, apperr.ErrDuplicateTask) {
			u.printf("\nТакая задача уже существует\n")
			return
		}
		u.log.Error("add task failed", zap.Error(err))
		u.printf("\nОшибка при добавлении: %v\n", err)
		return
	}
	u.printf("\nЗадача успешно добавлена\n")
}

func (u *ConsoleUI) viewTasksFlow() {
	u.printf("\n--- Просмотр задач ---\n")
	u.printf("\n1. Показать все задачи\n")
	u.printf("2. Показать задачи на конкретный день\n")

	choice, ok := u.prompt("\nВыберите: ")
	if !ok {
		return
	}
	switch choice {
	case "1":
		u.showAllTasks()
	case "2":
		if day, ok := u.selectDay(); ok {
			u.showTasksForDay(day)
		}
	default:
		u.printf("Неверный выбор!\n")
	}
}

func (u *ConsoleUI) showAllTasks() {
	all := u.tasks.AllTasks()
	hasTasks := false
	for _, day := range model.Days() {
		tasks := all[day]
		if len(tasks) == 0 {
			continue
		}
		hasTasks = true
		u.printf("\n%s:\n", day.Title())
		for i, t := range tasks {
			u.printf("  %d. %s %s\n", i+1, statusIcon(t), t.Title)
			if t.Description != "" {
				u.printf("     %s\n", t.Description)
			}
		}
	}
	if !hasTasks {
		u.printf("\nЗадач пока нет\n")
	}
}

func (u *ConsoleUI) showTasksForDay(day model.Day) {
	tasks := u.tasks.TasksForDay(day)
	u.printf("\n%s:\n", day.Title())
	if len(tasks) == 0 {
		u.printf("  Задач нет\n")
		return
	}
	for i, t := range tasks {
		u.printf("  %d. %s %s\n", i+1, statusIcon(t), t.Title)
		if t.Description != "" {
			u.printf("     %s\n", t.Description)
		}
		u.printf("     ID: %s\n", shortID(t.ID))
	}
}

func (u *ConsoleUI) markTaskDoneFlow() {
	u.printf("\n--- Отметить задачу выполненной ---\n")

	task, ok := u.resolveTask("Введите ID задачи (или название для поиска): ")
	if !ok || task == nil {
		return
	}
	if task.IsDone() {
		u.printf("\nЗадача уже отмечена как выполненная\n")
		return
	}
	if err := u.tasks.MarkTaskDone(task.ID); err != nil {
		u.log.Error("mark done failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nЗадача отмечена как выполненная\n")
}

func (u *ConsoleUI) deleteTaskFlow() {
	u.printf("\n--- Удаление задачи ---\n")

	task, ok := u.resolveTask("Введите ID задачи (или название): ")
	if !ok || task == nil {
		return
	}
	if !u.confirm("\nУдалить задачу '" + task.Title + "'? (да/нет): ") {
		u.printf("Отменено\n")
		return
	}
	if err := u.tasks.RemoveTask(task.ID); err != nil {
		u.log.Error("remove task failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nЗадача успешно удалена\n")
}

func (u *ConsoleUI) searchTaskFlow() {
	u.printf("\n--- Поиск задачи ---\n")

	query, ok := u.prompt("Введите название задачи: ")
	if !ok {
		return
	}
	if query == "" {
		u.printf("Запрос не может быть пустым!\n")
		return
	}
	tasks := u.tasks.FindByName(query)
	if len(tasks) == 0 {
		u.printf("\nЗадачи не найдены\n")
		return
	}
	u.printf("\nНайдено задач: %d\n", len(tasks))
	for _, t := range tasks {
		u.printf("\n%s %s\n", statusIcon(t), t.Title)
		if t.Description != "" {
			u.printf("  %s\n", t.Description)
		}
		u.printf("  ID: %s\n", shortID(t.ID))
		u.printf("  Создано: %s\n", formatTime(t.CreatedAt))
	}
}

func (u *ConsoleUI) editTaskFlow() {
	u.printf("\n--- Редактирование задачи ---\n")

	taskID, ok := u.prompt("Введите ID задачи: ")
	if !ok {
		return
	}
	task := u.tasks.GetByID(taskID)
	if task == nil {
		u.printf("Задача не найдена\n")
		return
	}

	u.printf("\nТекущие данные:\n")
	u.printf("Название: %s\n", task.Title)
	if task.Description != "" {
		u.printf("Описание: %s\n", task.Description)
	} else {
		u.printf("Описание: (нет)\n")
	}

	newTitle, ok := u.prompt("\nНовое название (Enter для пропуска): ")
	if !ok {
		return
	}
	newDesc, ok := u.prompt("Новое описание (Enter для пропуска): ")
	if !ok {
		return
	}
	if newTitle == "" && newDesc == "" {
		u.printf("\nНичего не изменено\n")
		return
	}

	var titlePtr, descPtr *string
	if newTitle != "" {
		titlePtr = &newTitle
	}
	if newDesc != "" {
		descPtr = &newDesc
	}
	if err := u.tasks.UpdateTask(task.ID, titlePtr, descPtr); err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			u.printf("\nНекорректный ввод данных\n")
			return
		}
		u.log.Error("update task failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nЗадача успешно обновлена\n")
}

func (u *ConsoleUI) clearTasksFlow() {
	u.printf("\n--- Очистка всех задач ---\n")
	if u.tasks.TaskCount() == 0 {
		u.printf("Список задач пуст\n")
		return
	}
	if !u.confirm("Удалить все задачи текущего пространства? (да/нет): ") {
		u.printf("Отменено\n")
		return
	}
	if err := u.tasks.ClearWorkspace(); err != nil {
		u.log.Error("clear workspace failed", zap.Error(err))
		u.printf("\nОшибка: %v\n", err)
		return
	}
	u.printf("\nВсе задачи удалены\n")
}

// resolveTask finds a task by exact id, falling back to a name search with
// a numbered disambiguation when several tasks share the title.
func (u *ConsoleUI) resolveTask(label string) (*model.Task, bool) {
	query, ok := u.prompt(label)
	if !ok {
		return nil, false
	}
	if query == "" {
		u.printf("ID не может быть пустым!\n")
		return nil, true
	}
	if task := u.tasks.GetByID(query); task != nil {
		return task, true
	}
	matches := u.tasks.FindByName(query)
	switch len(matches) {
	case 0:
		u.printf("Задача не найдена\n")
		return nil, true
	case 1:
		return matches[0], true
	}
	u.printf("\nНайдено несколько задач:\n")
	for i, t := range matches {
		u.printf("%d. %s (ID: %s)\n", i+1, t.Title, shortID(t.ID))
	}
	choice, ok := u.prompt("\nВыберите номер задачи: ")
	if !ok {
		return nil, false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(matches) {
		u.printf("Неверный номер!\n")
		return nil, true
	}
	return matches[idx-1], true
}

func statusIcon(t *model.Task) string {
	if t.IsDone() {
		return "[x]"
	}
	return "[ ]"
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}
